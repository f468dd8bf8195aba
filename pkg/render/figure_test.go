package render

import (
	"testing"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

func TestSorted(t *testing.T) {
	var fig Figure
	fig.Add(
		Annotation{Text: "a", Z: ZText},
		Bar{Key: "b1", Z: ZData},
		HLine{Z: ZBackground},
		Bar{Key: "b2", Z: ZData},
	)
	got := fig.Axes.Sorted()
	if _, ok := got[0].(HLine); !ok {
		t.Errorf("first item = %T, want HLine", got[0])
	}
	if got[1].(Bar).Key != "b1" || got[2].(Bar).Key != "b2" {
		t.Error("equal z order lost insertion order")
	}
	if _, ok := got[3].(Annotation); !ok {
		t.Errorf("last item = %T, want Annotation", got[3])
	}
	if len(fig.Axes.Items) != 4 || fig.Axes.Items[0].ZOrder() != ZText {
		t.Error("Sorted modified the figure")
	}
}

func TestCollect(t *testing.T) {
	var fig Figure
	fig.Add(Bar{Key: "x"}, Line{}, Bar{Key: "y"}, Marker{})
	bars := Collect[Bar](&fig)
	if len(bars) != 2 || bars[0].Key != "x" || bars[1].Key != "y" {
		t.Errorf("Collect[Bar] = %+v", bars)
	}
	if n := len(Collect[Polygon](&fig)); n != 0 {
		t.Errorf("Collect[Polygon] = %d items, want 0", n)
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"png", "png", true},
		{"PNG", "png", true},
		{"jpeg", "jpg", true},
		{"jpg", "jpg", true},
		{" svg ", "svg", true},
		{"webp", "webp", true},
		{"gif", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeFormat(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("NormalizeFormat(%q) error = %v", tt.in, err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s, want INVALID_FORMAT", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("NormalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMIMEType(t *testing.T) {
	jpg, _ := MIMEType("jpg")
	jpeg, _ := MIMEType("jpeg")
	if jpg != "image/jpeg" || jpeg != jpg {
		t.Errorf("jpg = %q, jpeg = %q", jpg, jpeg)
	}
	if svg, _ := MIMEType("svg"); svg != "image/svg+xml" {
		t.Errorf("svg = %q", svg)
	}
}
