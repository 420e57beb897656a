package prompt

import (
	"strings"

	"github.com/HartBrook/penman/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tone adjusts the register of a generated post.
type Tone string

const (
	ToneDefault       Tone = "Default"
	ToneInspirational Tone = "Inspirational"
	ToneProfessional  Tone = "Professional"
	ToneFriendly      Tone = "Friendly"
	ToneWitty         Tone = "Witty"
)

// Tones lists the selectable tones in display order.
var Tones = []Tone{ToneDefault, ToneInspirational, ToneProfessional, ToneFriendly, ToneWitty}

// ParseTone resolves a tone name case-insensitively. An empty name is Default.
func ParseTone(name string) (Tone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ToneDefault, nil
	}

	candidate := Tone(cases.Title(language.English).String(strings.ToLower(name)))
	for _, t := range Tones {
		if t == candidate {
			return t, nil
		}
	}

	return "", errors.ToneInvalid(name, ToneNames())
}

// ToneNames returns the tone names as strings.
func ToneNames() []string {
	names := make([]string, len(Tones))
	for i, t := range Tones {
		names[i] = string(t)
	}
	return names
}

// Directive is the tone line embedded into the generation prompt.
func (t Tone) Directive() string {
	if t == ToneDefault || t == "" {
		return "Match original style"
	}
	return string(t)
}
