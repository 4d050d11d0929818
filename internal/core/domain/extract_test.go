package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJob() ParseJob {
	return ParseJob{
		InputPath:     "/docs/report.pdf",
		OutputDir:     "/out",
		Method:        ParseMethodAuto,
		Backend:       BackendPipeline,
		Lang:          LangCh,
		StartPage:     0,
		EndPage:       -1,
		FormulaEnable: true,
		TableEnable:   true,
		Source:        ModelSourceHuggingFace,
	}
}

// TestParseJob_Validate tests extraction request validation
func TestParseJob_Validate(t *testing.T) {
	t.Run("well-formed job passes", func(t *testing.T) {
		assert.NoError(t, validJob().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*ParseJob)
		message string
	}{
		{
			name:    "missing input path",
			mutate:  func(j *ParseJob) { j.InputPath = "" },
			message: "input path",
		},
		{
			name:    "missing output directory",
			mutate:  func(j *ParseJob) { j.OutputDir = "" },
			message: "output directory",
		},
		{
			name:    "unknown method",
			mutate:  func(j *ParseJob) { j.Method = "fast" },
			message: "parse method",
		},
		{
			name:    "unknown backend",
			mutate:  func(j *ParseJob) { j.Backend = "gpu" },
			message: "backend",
		},
		{
			name:    "unknown language hint",
			mutate:  func(j *ParseJob) { j.Lang = "fr" },
			message: "language hint",
		},
		{
			name:    "client backend without server URL",
			mutate:  func(j *ParseJob) { j.Backend = BackendVLMSglangClient },
			message: "server URL",
		},
		{
			name:    "negative start page",
			mutate:  func(j *ParseJob) { j.StartPage = -2 },
			message: "start page",
		},
		{
			name: "end page before start page",
			mutate: func(j *ParseJob) {
				j.StartPage = 5
				j.EndPage = 2
			},
			message: "end page",
		},
		{
			name:    "unknown model source",
			mutate:  func(j *ParseJob) { j.Source = "mirror" },
			message: "model source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(&job)

			err := job.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("all violations reported together", func(t *testing.T) {
		err := ParseJob{}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input path")
		assert.Contains(t, err.Error(), "output directory")
		assert.Contains(t, err.Error(), "parse method")
	})

	t.Run("negative end page means through the last page", func(t *testing.T) {
		job := validJob()
		job.StartPage = 3
		job.EndPage = -1
		assert.NoError(t, job.Validate())
	})
}

// TestParseBackend_RequiresServerURL tests remote backend detection
func TestParseBackend_RequiresServerURL(t *testing.T) {
	assert.True(t, BackendVLMSglangClient.RequiresServerURL())
	assert.False(t, BackendPipeline.RequiresServerURL())
	assert.False(t, BackendVLMTransformers.RequiresServerURL())
	assert.False(t, BackendVLMSglangEngine.RequiresServerURL())
}
