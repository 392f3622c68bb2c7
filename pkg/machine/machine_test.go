package machine_test

import (
	"testing"

	"github.com/dmelnikov/healthwave/pkg/classify"
	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpening(t *testing.T) {
	p := machine.Opening()
	assert.Equal(t, "Вы болеете?", p.Text)
	require.NotNil(t, p.Keyboard)
	assert.Equal(t, classify.PayloadYesNo, p.Keyboard.PayloadKey)
	assert.Equal(t, []string{"Да", "Нет"}, p.Keyboard.Options)
}

func TestApply_IsIllYes(t *testing.T) {
	rec := *domain.NewRecord()

	step := machine.Apply(rec, domain.YesNoChoice{Text: machine.AnswerYes})

	assert.True(t, step.Applied)
	assert.True(t, step.Record.Ill)
	assert.Equal(t, domain.StageWillCertificate, step.Record.Stage)
	require.NotNil(t, step.Reply)
	require.NotNil(t, step.Reply.Keyboard)
	assert.Equal(t, classify.PayloadWillCertificate, step.Reply.Keyboard.PayloadKey)
	assert.Equal(t, []string{"Будет", "Нет, буду лечиться дома"}, step.Reply.Keyboard.Options)
	assert.False(t, step.Completed)
}

func TestApply_IsIllNoKeepsStage(t *testing.T) {
	// The "not ill" branch never advances to a terminal stage; the record
	// stays matchable by later handlers. That is live behavior, kept.
	rec := *domain.NewRecord()

	step := machine.Apply(rec, domain.YesNoChoice{Text: machine.AnswerNo})

	assert.True(t, step.Applied)
	assert.False(t, step.Record.Ill)
	assert.Equal(t, domain.StageInProgress, step.Record.Stage)
	require.NotNil(t, step.Reply)
	assert.Contains(t, step.Reply.Text, "Не болей!")
	assert.False(t, step.Completed)

	// Still re-matchable: a second "Да" advances it normally.
	again := machine.Apply(step.Record, domain.YesNoChoice{Text: machine.AnswerYes})
	assert.Equal(t, domain.StageWillCertificate, again.Record.Stage)
}

func TestApply_CertificateChoices(t *testing.T) {
	rec := domain.Record{Stage: domain.StageWillCertificate, Ill: true}

	yes := machine.Apply(rec, domain.CertificateChoice{Text: machine.AnswerCertificate})
	assert.True(t, yes.Record.MedicalCertificate)
	assert.Equal(t, domain.StageCertificateData, yes.Record.Stage)
	require.NotNil(t, yes.Reply)
	assert.Contains(t, yes.Reply.Text, "справка")

	no := machine.Apply(rec, domain.CertificateChoice{Text: machine.AnswerHomeTreatment})
	assert.False(t, no.Record.MedicalCertificate)
	assert.Equal(t, domain.StageSymptoms, no.Record.Stage)
	require.NotNil(t, no.Reply)
	assert.Contains(t, no.Reply.Text, "симптомы")
}

func TestApply_CertificateDateForcesSymptoms(t *testing.T) {
	rec := domain.Record{Stage: domain.StageCertificateData, Ill: true, MedicalCertificate: true}

	step := machine.Apply(rec, domain.DateText{Text: "10.11.2021"})

	assert.Equal(t, "10.11.2021", step.Record.MedicalCertificateData)
	assert.Equal(t, domain.StageSymptoms, step.Record.Stage)
	require.NotNil(t, step.Reply)
	assert.Contains(t, step.Reply.Text, "симптомы")
	assert.False(t, step.Completed)
}

func TestApply_Symptoms(t *testing.T) {
	rec := domain.Record{Stage: domain.StageSymptoms, Ill: true}

	step := machine.Apply(rec, domain.FreeText{Text: "температура, кашель"})

	assert.Equal(t, "температура, кашель", step.Record.Diagnosis)
	assert.Equal(t, domain.StageLastDayInUniversity, step.Record.Stage)
	require.NotNil(t, step.Reply)
	assert.Contains(t, step.Reply.Text, "последний день")
}

func TestApply_LastDayCompletes(t *testing.T) {
	rec := domain.Record{
		Stage:     domain.StageLastDayInUniversity,
		Ill:       true,
		Diagnosis: "температура, кашель",
	}

	step := machine.Apply(rec, domain.DateText{Text: "10.11.2021"})

	assert.Equal(t, "10.11.2021", step.Record.DateOfLastAttendance)
	assert.Equal(t, domain.StageDone, step.Record.Stage)
	assert.True(t, step.Completed)
	require.NotNil(t, step.Reply)
	assert.Contains(t, step.Reply.Text, "Спасибо")
}

func TestApply_LastDayWithoutDiagnosisReasksSymptoms(t *testing.T) {
	rec := domain.Record{Stage: domain.StageLastDayInUniversity, Ill: true}

	step := machine.Apply(rec, domain.DateText{Text: "10.11.2021"})

	assert.Equal(t, "10.11.2021", step.Record.DateOfLastAttendance)
	assert.Equal(t, domain.StageSymptoms, step.Record.Stage)
	assert.False(t, step.Completed)
}

func TestApply_UnlistedPairsAreNoOps(t *testing.T) {
	cases := map[string]struct {
		rec domain.Record
		ev  domain.Event
	}{
		"date at in_progress":      {domain.Record{Stage: domain.StageInProgress}, domain.DateText{Text: "10.11.2021"}},
		"free text at in_progress": {domain.Record{Stage: domain.StageInProgress}, domain.FreeText{Text: "привет"}},
		"yes/no at symptoms":       {domain.Record{Stage: domain.StageSymptoms}, domain.YesNoChoice{Text: machine.AnswerYes}},
		"certificate at done":      {domain.Record{Stage: domain.StageDone}, domain.CertificateChoice{Text: machine.AnswerCertificate}},
		"date at done":             {domain.Record{Stage: domain.StageDone}, domain.DateText{Text: "10.11.2021"}},
		"unexpected yes/no answer": {domain.Record{Stage: domain.StageInProgress}, domain.YesNoChoice{Text: "может быть"}},
	}
	for name, tc := range cases {
		step := machine.Apply(tc.rec, tc.ev)
		assert.False(t, step.Applied, name)
		assert.Nil(t, step.Reply, name)
		assert.False(t, step.Completed, name)
		assert.Equal(t, tc.rec, step.Record, name)
	}
}

// TestApply_FullPath walks the longest legal stage sequence and checks every
// intermediate stage and the completion invariants.
func TestApply_FullPath(t *testing.T) {
	rec := *domain.NewRecord()
	stages := []domain.Stage{rec.Stage}

	advance := func(ev domain.Event) machine.Step {
		step := machine.Apply(rec, ev)
		require.True(t, step.Applied)
		rec = step.Record
		stages = append(stages, rec.Stage)
		return step
	}

	advance(domain.YesNoChoice{Text: machine.AnswerYes})
	advance(domain.CertificateChoice{Text: machine.AnswerCertificate})
	advance(domain.DateText{Text: "08.11.2021"})
	advance(domain.FreeText{Text: "болит горло"})
	last := advance(domain.DateText{Text: "10.11.2021"})

	assert.Equal(t, []domain.Stage{
		domain.StageInProgress,
		domain.StageWillCertificate,
		domain.StageCertificateData,
		domain.StageSymptoms,
		domain.StageLastDayInUniversity,
		domain.StageDone,
	}, stages)

	assert.True(t, last.Completed)
	assert.NotEmpty(t, rec.Diagnosis)
	assert.NotEmpty(t, rec.DateOfLastAttendance)
	assert.True(t, rec.Done())
}
