package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	stored []*models.Submission
	err    error
}

func (m *memStore) InsertSubmission(_ context.Context, s *models.Submission) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, s)
	return nil
}

func TestProcessSubmissionStoresValidSource(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	sub := &models.Submission{CorpusID: "c1", Author: "alice", FileName: "A.java", SourceCode: "class A { int f() { return 1; } }"}
	require.NoError(t, svc.ProcessSubmission(context.Background(), sub))

	require.Len(t, store.stored, 1)
	assert.NotEmpty(t, store.stored[0].SubmissionID, "an id is assigned")
	assert.Empty(t, store.stored[0].Diagnostics)
	assert.Equal(t, "class A { int f() { return 1; } }", store.stored[0].SourceCode)
}

func TestProcessSubmissionKeepsGivenID(t *testing.T) {
	store := &memStore{}
	sub := &models.Submission{SubmissionID: "given", CorpusID: "c1", FileName: "A.java"}
	require.NoError(t, NewService(store, nil).ProcessSubmission(context.Background(), sub))
	assert.Equal(t, "given", store.stored[0].SubmissionID)
}

func TestProcessSubmissionRecordsDiagnostics(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	sub := &models.Submission{CorpusID: "c1", Author: "bob", FileName: "B.java", SourceCode: "}\nclass B {}\n"}
	require.NoError(t, svc.ProcessSubmission(context.Background(), sub))
	require.Len(t, sub.Diagnostics, 1)
	assert.Contains(t, sub.Diagnostics[0], "bob/B.java:1")
}

func TestProcessSubmissionRunsSyntaxChecker(t *testing.T) {
	checker := parser.NewSyntaxChecker()
	defer checker.Close()
	store := &memStore{}
	svc := NewService(store, checker)

	sub := &models.Submission{
		CorpusID:   "c1",
		Author:     "carol",
		FileName:   "C.java",
		SourceCode: "class C {\n  void f() {\n    int x = ;\n  }\n}\n",
	}
	require.NoError(t, svc.ProcessSubmission(context.Background(), sub))
	assert.NotEmpty(t, sub.Diagnostics)
}

func TestProcessSubmissionRejectsInvalid(t *testing.T) {
	store := &memStore{}
	err := NewService(store, nil).ProcessSubmission(context.Background(), &models.Submission{FileName: "A.java"})
	assert.ErrorIs(t, err, models.ErrInvalidSubmission)
	assert.Empty(t, store.stored)
}

func TestProcessSubmissionWrapsStoreErrors(t *testing.T) {
	boom := errors.New("write conflict")
	err := NewService(&memStore{err: boom}, nil).ProcessSubmission(context.Background(),
		&models.Submission{CorpusID: "c1", FileName: "A.java"})
	assert.ErrorIs(t, err, boom)
}
