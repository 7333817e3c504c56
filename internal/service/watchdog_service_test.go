package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
)

func TestSweep_MarksOnlyProcessingFiles(t *testing.T) {
	state := newFakeState()
	mk := func(name, status string) {
		id := uuid.New()
		state.files[id] = &entity.PatientFile{
			Id:              id,
			PatientId:       uuid.New(),
			FileName:        name,
			FileType:        "pdf",
			Category:        entity.CategoryDocuments,
			IngestionStatus: status,
		}
	}
	mk("stalled-a", entity.IngestionStatusProcessing)
	mk("stalled-b", entity.IngestionStatusProcessing)
	mk("done", entity.IngestionStatusCompleted)
	mk("fresh", entity.IngestionStatusNotProcessing)
	mk("failed", entity.IngestionStatusError)

	mail := &fakeMailer{}
	svc := NewWatchdogService(&fakeFactory{state: state}, nil, mail, testLogger())

	resp, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"stalled-a", "stalled-b"}, resp.MarkedFiles)

	for _, f := range state.files {
		assert.NotEqual(t, entity.IngestionStatusProcessing, f.IngestionStatus)
	}
	require.Len(t, mail.sweeps, 1)
	assert.Equal(t, []string{"stalled-a", "stalled-b"}, mail.sweeps[0])
}

func TestSweep_NothingStalled(t *testing.T) {
	state := newFakeState()
	mail := &fakeMailer{}
	svc := NewWatchdogService(&fakeFactory{state: state}, nil, mail, testLogger())

	resp, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.MarkedFiles)
	assert.Empty(t, mail.sweeps, "no report when nothing was marked")
}
