package debug

import (
	"log"
	"os"
	"testing"
)

func resetGlobals() {
	enableAssert = false
	enableLog = false
	logger = log.New(os.Stdout, "", log.LstdFlags)
	if logfile != nil {
		_ = logfile.Close()
	}
	logfile = nil
}

func TestAssertPanicsWhenEnabled(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableAssert = true
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when assertions enabled")
		}
	}()
	Assert(false, "boom")
}

func TestAssertNoOpWhenConditionTrue(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableAssert = true
	Assert(true, "this should not panic")
}

func TestAssertNoOpWhenDisabled(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableAssert = false
	Assert(false, "disabled, should not panic")
}

func TestAssertNoErrorNoOpWhenNil(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableAssert = true
	AssertNoError(nil)
}

func TestAssertNoErrorPanicsOnError(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableAssert = true
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from a non-nil error")
		}
	}()
	AssertNoError(os.ErrClosed)
}

func TestLogNoOpWhenDisabled(t *testing.T) {
	t.Cleanup(resetGlobals)
	enableLog = false
	// Must not panic even though no logfile is open.
	Log("message %d", 1)
}
