package svgeom

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestParseViewBox(t *testing.T) {
	var tests = []struct {
		s    string
		vbox ViewBox
	}{
		{"0 0 100 50", ViewBox{Rect{0.0, 0.0, 100.0, 50.0}}},
		{"-10,-20,30,40", ViewBox{Rect{-10.0, -20.0, 30.0, 40.0}}},
		{" 0, 0 , 1.5  2.5 ", ViewBox{Rect{0.0, 0.0, 1.5, 2.5}}},
		{"0 0 0 0", ViewBox{Rect{0.0, 0.0, 0.0, 0.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			vbox, err := ParseViewBox(tt.s)
			test.Error(t, err)
			test.T(t, vbox, tt.vbox)
		})
	}
}

func TestParseViewBoxError(t *testing.T) {
	var tests = []string{
		"",
		"0 0 100",
		"0 0 100 50 60",
		"0 0 -100 50",
		"0 0 100 -50",
		"0 0 a 50",
		"0 0 1e999 50",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := ParseViewBox(s)
			test.That(t, err != nil)
		})
	}
}

func TestViewBoxString(t *testing.T) {
	test.String(t, ViewBox{Rect{0.0, 0.0, 100.0, 50.0}}.String(), "0 0 100 50")
}
