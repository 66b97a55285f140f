package email

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"
	"time"

	"erpr_backend/internals/configs"
)

const (
	TplWelcome         = "welcome"
	TplPasswordReset   = "password_reset"
	TplTrialEnding     = "trial_ending"
	TplTrialExpired    = "trial_expired"
	TplSessionReminder = "session_reminder"
	TplSessionCanceled = "session_canceled"
	TplHomeworkGraded  = "homework_graded"
	TplPaymentReceipt  = "payment_receipt"
)

type template struct {
	subject *texttmpl.Template
	text    *texttmpl.Template
	html    *htmltmpl.Template
}

// Templates share one data map; every template gets AppName and FrontendURL.
var templates = map[string]template{
	TplWelcome: parse("Bienvenue sur {{.AppName}}",
		`Bonjour {{.Name}},

Votre compte est créé. Votre essai gratuit de {{.TrialDays}} jours commence aujourd'hui et donne accès aux {{.FreeChapters}} premiers chapitres de la méthode ERPR.

{{.FrontendURL}}`,
		`<p>Bonjour {{.Name}},</p><p>Votre compte est créé. Votre essai gratuit de {{.TrialDays}} jours commence aujourd'hui et donne accès aux {{.FreeChapters}} premiers chapitres de la méthode ERPR.</p><p><a href="{{.FrontendURL}}">Commencer</a></p>`),

	TplPasswordReset: parse("Réinitialisation de votre mot de passe",
		`Bonjour {{.Name}},

Pour choisir un nouveau mot de passe, ouvrez ce lien (valable une heure) :
{{.Link}}

Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.`,
		`<p>Bonjour {{.Name}},</p><p>Pour choisir un nouveau mot de passe, cliquez sur ce lien (valable une heure) :</p><p><a href="{{.Link}}">Réinitialiser mon mot de passe</a></p><p>Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>`),

	TplTrialEnding: parse("Votre essai gratuit se termine bientôt",
		`Bonjour {{.Name}},

Votre essai gratuit se termine le {{.EndsAt}}. Abonnez-vous pour garder l'accès à tous les chapitres.

{{.FrontendURL}}/abonnement`,
		`<p>Bonjour {{.Name}},</p><p>Votre essai gratuit se termine le {{.EndsAt}}. Abonnez-vous pour garder l'accès à tous les chapitres.</p><p><a href="{{.FrontendURL}}/abonnement">Voir les offres</a></p>`),

	TplTrialExpired: parse("Votre essai gratuit est terminé",
		`Bonjour {{.Name}},

Votre essai gratuit est terminé. Votre progression est conservée : abonnez-vous pour reprendre là où vous vous êtes arrêté.

{{.FrontendURL}}/abonnement`,
		`<p>Bonjour {{.Name}},</p><p>Votre essai gratuit est terminé. Votre progression est conservée : abonnez-vous pour reprendre là où vous vous êtes arrêté.</p><p><a href="{{.FrontendURL}}/abonnement">Voir les offres</a></p>`),

	TplSessionReminder: parse("Rappel : séance le {{.StartsAt}}",
		`Bonjour {{.Name}},

Rappel de votre séance {{.Module}} avec {{.With}} le {{.StartsAt}} ({{.Duration}} minutes).
{{if .MeetingURL}}Lien : {{.MeetingURL}}{{end}}`,
		`<p>Bonjour {{.Name}},</p><p>Rappel de votre séance {{.Module}} avec {{.With}} le {{.StartsAt}} ({{.Duration}} minutes).</p>{{if .MeetingURL}}<p><a href="{{.MeetingURL}}">Rejoindre la séance</a></p>{{end}}`),

	TplSessionCanceled: parse("Séance annulée",
		`Bonjour {{.Name}},

La séance {{.Module}} du {{.StartsAt}} a été annulée par {{.By}}.
{{if .Reason}}Motif : {{.Reason}}{{end}}`,
		`<p>Bonjour {{.Name}},</p><p>La séance {{.Module}} du {{.StartsAt}} a été annulée par {{.By}}.</p>{{if .Reason}}<p>Motif : {{.Reason}}</p>{{end}}`),

	TplHomeworkGraded: parse("Votre devoir a été corrigé",
		`Bonjour {{.Name}},

Votre devoir « {{.Title}} » ({{.Module}}, chapitre {{.Chapter}}) : {{.Status}}.
{{if .Grade}}Note : {{.Grade}}/20{{end}}
{{if .Feedback}}Commentaire : {{.Feedback}}{{end}}`,
		`<p>Bonjour {{.Name}},</p><p>Votre devoir « {{.Title}} » ({{.Module}}, chapitre {{.Chapter}}) : <strong>{{.Status}}</strong>.</p>{{if .Grade}}<p>Note : {{.Grade}}/20</p>{{end}}{{if .Feedback}}<p>Commentaire : {{.Feedback}}</p>{{end}}`),

	TplPaymentReceipt: parse("Confirmation de paiement",
		`Bonjour {{.Name}},

Nous avons bien reçu votre paiement de {{.Amount}} {{.Currency}} (commande {{.OrderID}}).
Abonnement {{.Plan}} ({{.Module}}) actif jusqu'au {{.EndsAt}}.`,
		`<p>Bonjour {{.Name}},</p><p>Nous avons bien reçu votre paiement de {{.Amount}} {{.Currency}} (commande {{.OrderID}}).</p><p>Abonnement {{.Plan}} ({{.Module}}) actif jusqu'au {{.EndsAt}}.</p>`),
}

func parse(subject, text, html string) template {
	return template{
		subject: texttmpl.Must(texttmpl.New("subject").Parse(subject)),
		text:    texttmpl.Must(texttmpl.New("text").Parse(text)),
		html:    htmltmpl.Must(htmltmpl.New("html").Parse(html)),
	}
}

// Render builds the message for a named template.
func Render(name string, to mail.Address, data map[string]any) (Message, error) {
	tpl, ok := templates[name]
	if !ok {
		return Message{}, &UnknownTemplateError{Name: name}
	}
	ctx := map[string]any{
		"AppName":     configs.AppName,
		"FrontendURL": configs.FrontendURL,
		"Name":        to.Name,
	}
	for k, v := range data {
		ctx[k] = v
	}

	var subj, text, html bytes.Buffer
	if err := tpl.subject.Execute(&subj, ctx); err != nil {
		return Message{}, err
	}
	if err := tpl.text.Execute(&text, ctx); err != nil {
		return Message{}, err
	}
	if err := tpl.html.Execute(&html, ctx); err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  subj.String(),
		Text:     text.String(),
		HTML:     html.String(),
		Template: name,
	}, nil
}

type UnknownTemplateError struct{ Name string }

func (e *UnknownTemplateError) Error() string { return "email: unknown template " + e.Name }

// FormatDate renders times in French day/month order, Paris time.
func FormatDate(t time.Time) string {
	return t.In(paris).Format("02/01/2006 à 15h04")
}

var paris = loadParis()

func loadParis() *time.Location {
	if loc, err := time.LoadLocation("Europe/Paris"); err == nil {
		return loc
	}
	return time.UTC
}
