package domain

// Stage identifies the respondent's position in the question sequence.
type Stage string

const (
	// StageInProgress is the starting stage of every enrolled record.
	StageInProgress Stage = "in_progress"
	// StageIsIll marks the opening "are you ill" prompt. It is never stored
	// on a record; it exists so the prompt table covers the wave opener.
	StageIsIll Stage = "is_ill"
	// StageWillCertificate waits for the certificate yes/no choice.
	StageWillCertificate Stage = "will_certificate"
	// StageCertificateData waits for the certificate date.
	StageCertificateData Stage = "certificate_data"
	// StageSymptoms waits for the free-text symptom description.
	StageSymptoms Stage = "symptoms"
	// StageLastDayInUniversity waits for the last attendance date.
	StageLastDayInUniversity Stage = "last_day_in_university"
	// StageDone is the terminal stage. Reaching it fires the export.
	StageDone Stage = "done"
)

// Record is one respondent's survey state for a single wave date.
type Record struct {
	Stage                  Stage  `json:"stage"`
	Ill                    bool   `json:"ill"`
	Diagnosis              string `json:"diagnosis"`
	MedicalCertificate     bool   `json:"medical_certificate"`
	MedicalCertificateData string `json:"medical_certificate_data"`
	DateOfLastAttendance   string `json:"date_of_last_attendance"`
}

// NewRecord creates a fresh record at the starting stage.
func NewRecord() *Record {
	return &Record{Stage: StageInProgress}
}

// Done reports whether the record has reached its terminal stage.
func (r *Record) Done() bool {
	return r.Stage == StageDone
}

// Wave identifies one batch-initiated survey run. It is immutable once
// started; handlers snapshot the active wave instead of reading shared
// mutable fields, so a wave started mid-flight cannot redirect an event
// already being handled.
type Wave struct {
	// Date stamps the wave, formatted YYYY-MM-DD.
	Date string
	// SheetURL is the result sink location rows are appended to.
	SheetURL string
}
