package detection

import (
	"errors"
	"image"
	"testing"
)

func TestBoxCenter(t *testing.T) {
	tests := []struct {
		box  Box
		want Point
	}{
		{Box{100, 100, 140, 180}, Point{120, 140}},
		{Box{0, 0, 5, 5}, Point{2, 2}},
		{Box{1, 2, 4, 7}, Point{2, 4}},
		{Box{-5, -5, 0, 0}, Point{-3, -3}},
	}
	for _, tt := range tests {
		if got := tt.box.Center(); got != tt.want {
			t.Errorf("%+v.Center() = %+v, want %+v", tt.box, got, tt.want)
		}
	}
}

func TestBoxRect(t *testing.T) {
	if got := (Box{1, 2, 3, 4}).Rect(); got != image.Rect(1, 2, 3, 4) {
		t.Errorf("got %v", got)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{-6, 2, -3},
		{0, 2, 0},
		{7, -2, -4},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSetLabels(t *testing.T) {
	s := Set{{Label: "lamp"}, {Label: "chair"}, {Label: "lamp"}}
	got := s.Labels()
	if len(got) != 2 || got[0] != "lamp" || got[1] != "chair" {
		t.Errorf("got %v, want [lamp chair]", got)
	}
}

func TestFail(t *testing.T) {
	base := errors.New("boom")

	if Fail("room", nil) != nil {
		t.Error("Fail(nil) should be nil")
	}

	err := Fail("room", base)
	if err.Error() != "detection failed for room: boom" {
		t.Errorf("message: got %q", err.Error())
	}
	if !errors.Is(err, ErrDetectionFailure) || !errors.Is(err, base) {
		t.Error("Fail should match ErrDetectionFailure and the cause")
	}

	if again := Fail("room", err); again != err {
		t.Error("same op should not wrap twice")
	}
	if same := Fail("", err); same != err {
		t.Error("empty op should keep the existing failure")
	}

	relabelled := Fail("reference", err)
	var df *DetectionFailure
	if !errors.As(relabelled, &df) || df.Op != "reference" || df.Err != base {
		t.Errorf("relabel: got %+v", df)
	}

	if msg := Fail("", base).Error(); msg != "detection failed: boom" {
		t.Errorf("message without op: got %q", msg)
	}
}

func TestMalformedDetectionError(t *testing.T) {
	err := &MalformedDetectionError{
		Raw:    RawDetection{ClassID: 56, Box: Box{5, 5, 1, 1}},
		Reason: "inverted box",
	}
	if !errors.Is(err, ErrMalformedDetection) {
		t.Error("should match ErrMalformedDetection")
	}
	if errors.Is(err, ErrDetectionFailure) {
		t.Error("should not match ErrDetectionFailure")
	}
}
