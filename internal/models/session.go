package models

import (
	"time"
)

type Step string

const (
	StepIdle        Step = "idle"
	StepInitiated   Step = "initiated"
	StepStarted     Step = "started"
	StepLoading     Step = "loading"
	StepNormalizing Step = "normalizing"
	StepComparing   Step = "comparing"
	StepCompleted   Step = "completed"
	StepFailed      Step = "failed"
)

// Terminal reports whether no further step follows s.
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepFailed
}

// ComputeRequest starts a comparison session over a stored corpus. Empty
// fields fall back to the service defaults.
type ComputeRequest struct {
	CorpusID  string   `json:"corpusId" binding:"required"`
	Algorithm string   `json:"algorithm"`
	Features  []string `json:"features"`
	Threshold *float64 `json:"threshold"`
	Prefilter *bool    `json:"prefilter"`
}

// ComputeResponse is returned when a session is accepted.
type ComputeResponse struct {
	SessionID string `json:"sessionId"`
	CorpusID  string `json:"corpusId"`
	Step      Step   `json:"step"`
}

// SourceFile is an inline Java file.
type SourceFile struct {
	Name   string `json:"name" binding:"required"`
	Source string `json:"source"`
}

// CompareRequest compares two inline files synchronously.
type CompareRequest struct {
	Files     []SourceFile `json:"files" binding:"required,len=2,dive"`
	Algorithm string       `json:"algorithm"`
	Features  []string     `json:"features"`
	Threshold *float64     `json:"threshold"`
}

// MethodPairReport is one retained method pair.
type MethodPairReport struct {
	MethodA string  `json:"methodA"`
	MethodB string  `json:"methodB"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Percent int     `json:"percent"`
}

// PairReport is the comparison of two files.
type PairReport struct {
	FileA    string             `json:"fileA"`
	FileB    string             `json:"fileB"`
	Score    float64            `json:"score"`
	Percent  int                `json:"percent"`
	Risk     string             `json:"risk"`
	Examined int                `json:"examined"`
	Methods  []MethodPairReport `json:"methods"`
	Text     string             `json:"text,omitempty"`
}

// SubmissionReport is the per-file verdict of a session.
type SubmissionReport struct {
	File  string   `json:"file"`
	Score float64  `json:"score"`
	Risk  string   `json:"risk"`
	Peers []string `json:"peers"`
}

// FileFailure names a file excluded from a session and why.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// SessionReport is the ephemeral result of a session. It lives in Redis
// until the session TTL expires.
type SessionReport struct {
	SessionID   string             `json:"sessionId"`
	CorpusID    string             `json:"corpusId"`
	Step        Step               `json:"step"`
	Algorithm   string             `json:"algorithm"`
	Features    []string           `json:"features"`
	Threshold   string             `json:"threshold"`
	Files       int                `json:"files"`
	Pairs       int                `json:"pairs"`
	Skipped     int                `json:"skipped"`
	Unfinished  int                `json:"unfinished"`
	Issues      int                `json:"issues"`
	Comparisons []PairReport       `json:"comparisons"`
	Submissions []SubmissionReport `json:"submissions"`
	Failures    []FileFailure      `json:"failures,omitempty"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"startedAt"`
	CompletedAt time.Time          `json:"completedAt"`
}

// StatusResponse is the current step of a session.
type StatusResponse struct {
	SessionID string `json:"sessionId"`
	Step      Step   `json:"step"`
}
