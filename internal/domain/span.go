package domain

import (
	"context"
	"time"
)

// Span times one pipeline stage
type Span struct {
	Name    string `json:"name"`
	startTs time.Time

	SubSpans []*Span `json:"subSpans,omitempty"`
	Elapsed  *int64  `json:"elapsedMs"`

	subProfile *Profile
}

type profileKey struct{}

// Profile is simply a list of spans
type Profile struct {
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return newProfile, newProfile.End
}

func ContextWithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// GetProfile returns the profile stored in ctx, or a detached one so
// callers never have to nil check
func GetProfile(ctx context.Context) (profile *Profile, endProfile func()) {
	if p, ok := ctx.Value(profileKey{}).(*Profile); ok && p != nil {
		return p, p.End
	}
	return NewProfile()
}

func (p *Profile) End() {
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
	if s.subProfile != nil {
		s.SubSpans = s.subProfile.Spans
	}
}

// StartNewSpan ends the last span and begins a new one
// not thread safe
func (p *Profile) StartNewSpan(name string) (newSpan *Span, endSpan func()) {
	newSpan = &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, newSpan)
	return newSpan, newSpan.End
}

func (s *Span) NewSubProfile() (*Profile, func()) {
	if s.subProfile != nil {
		panic("attempting to override existing subprofile")
	}
	newProfile, end := NewProfile()
	s.subProfile = newProfile
	return newProfile, end
}

// ElapsedByName flattens top level spans for logging
func (p *Profile) ElapsedByName() map[string]int64 {
	out := map[string]int64{}
	for _, s := range p.Spans {
		if s.Elapsed != nil {
			out[s.Name] = *s.Elapsed
		}
	}
	return out
}
