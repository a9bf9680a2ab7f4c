package status_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/FAU-CDI/wordcount/internal/status"
)

func TestStatus_nil(t *testing.T) {
	t.Parallel()

	st := status.NewStatus(nil, slog.LevelInfo)
	if st != nil {
		t.Fatalf("NewStatus(nil) = %v, want nil", st)
	}

	// none of these may panic
	st.Log("message")
	st.LogDebug("message")
	st.LogError("message", errors.New("test"))
	st.Start(status.StageCorpus)
	st.SetCT(1, 2)
	st.End()

	if st.Writer() != nil {
		t.Error("Writer() of a nil status is not nil")
	}
	if got := st.All(); got != nil {
		t.Errorf("All() = %v, want nil", got)
	}

	called := false
	if err := st.DoStage(status.StageReport, func() error {
		called = true
		return nil
	}); err != nil || !called {
		t.Errorf("DoStage() = %v, called = %v", err, called)
	}
}

func TestStatus_DoStage(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	st := status.NewStatus(&buffer, slog.LevelInfo)

	if err := st.DoStage(status.StageCorpus, func() error {
		st.SetCT(1, 2)
		return nil
	}); err != nil {
		t.Fatalf("DoStage() error = %v", err)
	}

	errFailed := errors.New("failed")
	if err := st.DoStage(status.StageMemory, func() error {
		return errFailed
	}); !errors.Is(err, errFailed) {
		t.Fatalf("DoStage() error = %v, want %v", err, errFailed)
	}

	all := st.All()
	if len(all) != 2 || all[0].Stage != status.StageCorpus || all[1].Stage != status.StageMemory {
		t.Errorf("All() = %v, want corpus and memory stages", all)
	}
	if all[0].Current != 1 || all[0].Total != 2 {
		t.Errorf("All()[0] progress = %d/%d, want 1/2", all[0].Current, all[0].Total)
	}

	output := buffer.String()
	for _, want := range []string{"stage=corpus", "corpus: 1/2", "FAILED failed stage", "stage=measure/memory"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
}

func TestStatus_quiet(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	st := status.NewStatus(&buffer, slog.LevelWarn)

	st.Start(status.StageCorpus)
	st.Log("hidden")
	st.SetCT(1, 2)
	st.End()

	if buffer.Len() != 0 {
		t.Errorf("quiet status wrote %q", buffer.String())
	}

	st.LogError("visible", errors.New("test"))
	if !strings.Contains(buffer.String(), "FAILED visible") {
		t.Errorf("quiet status did not log error, got %q", buffer.String())
	}
}
