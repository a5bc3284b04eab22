package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/camera"
	"github.com/Faultbox/folio/pkg/math"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfig, "")
	t.Setenv(envLogLevel, "error")

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestTraceSettle(t *testing.T) {
	steps := traceSettle(6, 0, 6, book.DefaultSettleTiming())
	want := []time.Duration{0, 50, 100, 150, 200, 350}
	if len(steps) != len(want) {
		t.Fatalf("steps = %+v, want %d", steps, len(want))
	}
	for i, st := range steps {
		if st.At != want[i]*time.Millisecond || st.Settled != i+1 {
			t.Errorf("step %d = %+v, want page %d at %dms", i, st, i+1, want[i])
		}
	}
}

func TestTraceSettleNoop(t *testing.T) {
	if steps := traceSettle(6, 3, 3, book.DefaultSettleTiming()); len(steps) != 0 {
		t.Errorf("steps = %+v, want none", steps)
	}
}

func TestTraceCmd(t *testing.T) {
	out, err := execute(t, "trace", "--from", "0", "--to", "6")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	for _, want := range []string{"page 6", "settled at 500ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPoseCmd(t *testing.T) {
	out, err := execute(t, "pose", "--page", "0", "--target", "1", "--after", "3s")
	if err != nil {
		t.Fatalf("pose: %v", err)
	}
	if !strings.Contains(out, "settled 1 opened true") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "pose", "--leaf", "99"); err == nil {
		t.Error("out of range leaf should fail")
	}
}

func TestSkinCmd(t *testing.T) {
	out, err := execute(t, "skin", "0")
	if err != nil {
		t.Fatalf("skin: %v", err)
	}
	if !strings.Contains(out, "x=0.0000  bone 0 w=1.000  bone 1 w=0.000") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "skin", "abc"); err == nil {
		t.Error("non-numeric x should fail")
	}
}

func TestHitCmd(t *testing.T) {
	cam := camera.NewBookCamera(1280, 720)
	ndc := cam.ViewProjection().TransformPoint(math.Vec3{X: 0.2, Y: 0.2, Z: 0.0015})
	x := (ndc.X + 1) / 2 * 1280
	y := (1 - ndc.Y) / 2 * 720

	out, err := execute(t, "hit", "--x", fmt.Sprint(x), "--y", fmt.Sprint(y))
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if !strings.Contains(out, "action: navigate to /about") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "hit", "--x", "1", "--y", "1")
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if !strings.Contains(out, "action: none") {
		t.Errorf("corner click should miss:\n%s", out)
	}
}

func TestCheckCmdMissingTextures(t *testing.T) {
	out, err := execute(t, "check", "--dir", t.TempDir())
	if err == nil {
		t.Fatal("empty texture dir should fail")
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("output should list failures:\n%s", out)
	}
}
