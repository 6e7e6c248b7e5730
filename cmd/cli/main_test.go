package main

import (
	"testing"
)

func TestParseCaptionFlags_Defaults(t *testing.T) {
	flags, err := parseCaptionFlags([]string{"photo.jpg"})
	if err != nil {
		t.Fatalf("parseCaptionFlags: %v", err)
	}
	if !flags.enhance {
		t.Error("enhance should default to true")
	}
	if flags.creativity != 0.8 {
		t.Errorf("creativity default: %v", flags.creativity)
	}
	if flags.remote {
		t.Error("remote should default to false")
	}
	if len(flags.paths) != 1 || flags.paths[0] != "photo.jpg" {
		t.Errorf("paths: %v", flags.paths)
	}
}

func TestParseCaptionFlags_AllFlags(t *testing.T) {
	flags, err := parseCaptionFlags([]string{"--no-enhance", "--creativity", "0.3", "--remote", "a.png", "b.png"})
	if err != nil {
		t.Fatalf("parseCaptionFlags: %v", err)
	}
	if flags.enhance {
		t.Error("enhance should be false")
	}
	if flags.creativity != 0.3 {
		t.Errorf("creativity: %v", flags.creativity)
	}
	if !flags.remote {
		t.Error("remote should be true")
	}
	if len(flags.paths) != 2 {
		t.Errorf("paths: %v", flags.paths)
	}
}

func TestParseCaptionFlags_Invalid(t *testing.T) {
	if _, err := parseCaptionFlags([]string{"--creativity"}); err == nil {
		t.Error("missing creativity value should error")
	}
	if _, err := parseCaptionFlags([]string{"--creativity", "high"}); err == nil {
		t.Error("non-numeric creativity should error")
	}
}
