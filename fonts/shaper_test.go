package fonts_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/wudi/infosvg/fonts"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect language.Script
	}{
		{"Latin", "Hello World", language.Latin},
		{"Arabic", "مرحبا بالعالم", language.Arabic},
		{"Hebrew", "שלום עולם", language.Hebrew},
		{"Cyrillic", "Привет мир", language.Cyrillic},
		{"Greek", "Γειά σου Κόσμε", language.Greek},
		// Ties keep the script counted first.
		{"Mixed tie", "Hello مرحبا", language.Latin},
		{"Mixed Latin dominant", "Hello World مرحبا", language.Latin},
		{"Mixed Arabic dominant", "مرحبا بالعالم Hello", language.Arabic},
		{"CJK (Han)", "你好世界", language.Han},
		{"Hangul", "안녕하세요", language.Hangul},
		{"Digits only", "12345", language.Latin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fonts.DetectScript([]rune(tc.input))
			if got != tc.expect {
				t.Errorf("Expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestAdvances(t *testing.T) {
	face, err := fonts.DefaultFace()
	if err != nil {
		t.Fatalf("DefaultFace: %v", err)
	}
	adv := face.Advances([]rune("Wi W"), 16)
	if len(adv) != 4 {
		t.Fatalf("expected 4 advances, got %d", len(adv))
	}
	for i, a := range adv {
		if a <= 0 {
			t.Errorf("advance %d: expected positive, got %v", i, a)
		}
	}
	if adv[0] <= adv[1] {
		t.Errorf("expected W wider than i: %v vs %v", adv[0], adv[1])
	}

	single := face.Advances([]rune("W"), 16)
	double := face.Advances([]rune("W"), 32)
	if diff := double[0] - 2*single[0]; diff > 0.1 || diff < -0.1 {
		t.Errorf("expected advance to scale with size: %v vs %v", double[0], single[0])
	}
}

func TestLoadFaceRejectsGarbage(t *testing.T) {
	if _, err := fonts.LoadFace("empty", nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := fonts.LoadFace("junk", []byte("not a font")); err == nil {
		t.Error("expected error for junk data")
	}
}
