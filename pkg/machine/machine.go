// Package machine holds the survey's stage transition logic as a pure
// function over (record, classified event). It owns no I/O and no shared
// state: the orchestrator loads the record, applies one step and persists
// the result, so every legal stage path is enumerable in one table here.
package machine

import "github.com/dmelnikov/healthwave/pkg/domain"

// Step is the outcome of applying one classified event to a record.
type Step struct {
	// Record is the (possibly updated) record to persist.
	Record domain.Record
	// Reply is the next outbound prompt, nil when the event was a no-op.
	Reply *Prompt
	// Completed reports that this step moved the record to done, which
	// must trigger exactly one export for the (identity, date) pair.
	Completed bool
	// Applied reports whether the event changed the record at all.
	Applied bool
}

type eventKind int

const (
	kindDate eventKind = iota
	kindCertificate
	kindYesNo
	kindFree
)

type transitionKey struct {
	stage domain.Stage
	kind  eventKind
}

type transitionFunc func(rec domain.Record, text string) Step

// transitions is the closed table of legal (stage, event kind) moves.
// Pairs absent from the table are no-ops: record unchanged, no reply.
var transitions = map[transitionKey]transitionFunc{
	{domain.StageInProgress, kindYesNo}:            answerIsIll,
	{domain.StageWillCertificate, kindCertificate}: answerCertificate,
	{domain.StageCertificateData, kindDate}:        answerCertificateDate,
	{domain.StageSymptoms, kindFree}:               answerSymptoms,
	{domain.StageLastDayInUniversity, kindDate}:    answerLastDay,
}

// Apply runs one classified event against a record. Start commands never
// reach the machine; the orchestrator handles them before dispatch.
func Apply(rec domain.Record, ev domain.Event) Step {
	var key transitionKey
	var text string

	switch e := ev.(type) {
	case domain.DateText:
		key, text = transitionKey{rec.Stage, kindDate}, e.Text
	case domain.CertificateChoice:
		key, text = transitionKey{rec.Stage, kindCertificate}, e.Text
	case domain.YesNoChoice:
		key, text = transitionKey{rec.Stage, kindYesNo}, e.Text
	case domain.FreeText:
		key, text = transitionKey{rec.Stage, kindFree}, e.Text
	default:
		return Step{Record: rec}
	}

	fn, ok := transitions[key]
	if !ok {
		return Step{Record: rec}
	}
	return fn(rec, text)
}

func answerIsIll(rec domain.Record, text string) Step {
	switch text {
	case AnswerYes:
		rec.Ill = true
		rec.Stage = domain.StageWillCertificate
		return Step{Record: rec, Reply: willCertificatePrompt(), Applied: true}
	case AnswerNo:
		// The stage deliberately stays in_progress: the live survey never
		// closed this branch, and later handlers still match the record.
		rec.Ill = false
		return Step{Record: rec, Reply: notIllReply(), Applied: true}
	}
	return Step{Record: rec}
}

func answerCertificate(rec domain.Record, text string) Step {
	switch text {
	case AnswerCertificate:
		rec.MedicalCertificate = true
		rec.Stage = domain.StageCertificateData
		return Step{Record: rec, Reply: prompt(domain.StageCertificateData), Applied: true}
	case AnswerHomeTreatment:
		rec.MedicalCertificate = false
		rec.Stage = domain.StageSymptoms
		return Step{Record: rec, Reply: prompt(domain.StageSymptoms), Applied: true}
	}
	return Step{Record: rec}
}

func answerCertificateDate(rec domain.Record, text string) Step {
	rec.MedicalCertificateData = text
	rec.Stage = domain.StageSymptoms
	return Step{Record: rec, Reply: prompt(domain.StageSymptoms), Applied: true}
}

func answerSymptoms(rec domain.Record, text string) Step {
	rec.Diagnosis = text
	rec.Stage = domain.StageLastDayInUniversity
	return Step{Record: rec, Reply: prompt(domain.StageLastDayInUniversity), Applied: true}
}

func answerLastDay(rec domain.Record, text string) Step {
	rec.DateOfLastAttendance = text
	if rec.Diagnosis == "" {
		// No diagnosis recorded yet; fall back to the symptoms question
		// so the record cannot complete with an empty diagnosis.
		rec.Stage = domain.StageSymptoms
		return Step{Record: rec, Reply: prompt(domain.StageSymptoms), Applied: true}
	}
	rec.Stage = domain.StageDone
	return Step{
		Record:    rec,
		Reply:     prompt(domain.StageDone),
		Completed: true,
		Applied:   true,
	}
}
