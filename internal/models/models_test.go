package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{CorpusID: "c1", Author: "alice", FileName: "Main.java"}
	assert.NoError(t, valid.Validate())

	cases := map[string]Submission{
		"no corpus":    {FileName: "Main.java"},
		"no file":      {CorpusID: "c1"},
		"path in name": {CorpusID: "c1", FileName: "src/Main.java"},
		"not java":     {CorpusID: "c1", FileName: "main.py"},
		"author path":  {CorpusID: "c1", Author: "../x", FileName: "Main.java"},
	}
	for name, sub := range cases {
		assert.ErrorIs(t, sub.Validate(), ErrInvalidSubmission, name)
	}
}

func TestSubmissionPath(t *testing.T) {
	assert.Equal(t, "alice/Main.java", (&Submission{Author: "alice", FileName: "Main.java"}).Path())
	assert.Equal(t, "s-1/Main.java", (&Submission{SubmissionID: "s-1", FileName: "Main.java"}).Path())
}

func TestStepTerminal(t *testing.T) {
	assert.True(t, StepCompleted.Terminal())
	assert.True(t, StepFailed.Terminal())
	assert.False(t, StepComparing.Terminal())
}
