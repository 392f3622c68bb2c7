package machine

import (
	"github.com/dmelnikov/healthwave/pkg/classify"
	"github.com/dmelnikov/healthwave/pkg/domain"
)

// Prompt is the next outbound question for a respondent, before the
// orchestrator addresses it to a recipient.
type Prompt struct {
	Text     string
	Keyboard *domain.Keyboard
}

// Answer labels the respondents pick from keyboards.
const (
	AnswerYes           = "Да"
	AnswerNo            = "Нет"
	AnswerCertificate   = "Будет"
	AnswerHomeTreatment = "Нет, буду лечиться дома"
)

// Question texts per stage, kept verbatim from the live survey.
var questions = map[domain.Stage]string{
	domain.StageIsIll:               "Вы болеете?",
	domain.StageWillCertificate:     "Будет ли справка",
	domain.StageCertificateData:     "От какого числа будет справка? Например, 10.11.2021 (только в таком формате)",
	domain.StageSymptoms:            "Опишите ваши симптомы, через символ. Например, температура, кашель, болит горло",
	domain.StageLastDayInUniversity: "Какого числа были последний день на занятиях? Например, 10.11.2021 (только в таком формате)",
	domain.StageDone:                "Спасибо, что прошли опрос. В случае ошибки или возникновения вопросов, пишите https://vk.com/me_lnikov",
}

const notIllPrefix = "Ну и хорошо. Не болей! \n"

// Opening returns the wave-opening "are you ill" prompt with its yes/no
// keyboard. The wave initiator sends it to every enrolled recipient.
func Opening() Prompt {
	return Prompt{
		Text: questions[domain.StageIsIll],
		Keyboard: &domain.Keyboard{
			PayloadKey: classify.PayloadYesNo,
			Options:    []string{AnswerYes, AnswerNo},
		},
	}
}

func prompt(stage domain.Stage) *Prompt {
	return &Prompt{Text: questions[stage]}
}

func willCertificatePrompt() *Prompt {
	return &Prompt{
		Text: questions[domain.StageWillCertificate],
		Keyboard: &domain.Keyboard{
			PayloadKey: classify.PayloadWillCertificate,
			Options:    []string{AnswerCertificate, AnswerHomeTreatment},
		},
	}
}

func notIllReply() *Prompt {
	return &Prompt{Text: notIllPrefix + questions[domain.StageDone]}
}
