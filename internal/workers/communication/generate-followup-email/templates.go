// internal/workers/communication/generate-followup-email/templates.go
package generatefollowupemail

import (
	"text/template"
)

// Canned follow-up templates, one per priority bucket. Deals classified as
// Alto risk get an extra urgency paragraph regardless of priority.

var subjectTemplates = map[string]*template.Template{
	"Hot": template.Must(template.New("subject-hot").Parse(
		`Siguiente paso para {{.DealTitle}}`)),
	"Warm": template.Must(template.New("subject-warm").Parse(
		`Seguimiento: {{.DealTitle}}`)),
	"Cold": template.Must(template.New("subject-cold").Parse(
		`¿Retomamos la conversación sobre {{.DealTitle}}?`)),
}

var bodyTemplates = map[string]*template.Template{
	"Hot": template.Must(template.New("body-hot").Parse(
		`Hola {{.ContactName}},

Gracias por el avance en {{.DealTitle}}. Estamos en la etapa de {{.Stage}} y quiero asegurarme de que no perdamos el impulso.
{{if .NextStep}}
Como acordamos, el siguiente paso es: {{.NextStep}}. ¿Te parece bien que lo cerremos esta semana?
{{else}}
¿Podemos agendar una llamada esta semana para definir el siguiente paso?
{{end}}{{if .Urgent}}
Veo que llevamos {{.InactivityDays}} días sin actividad en esta oportunidad. Me gustaría retomarla cuanto antes para no comprometer la fecha de cierre.
{{end}}
Un saludo,
{{.SenderName}}`)),
	"Warm": template.Must(template.New("body-warm").Parse(
		`Hola {{.ContactName}},

Quería hacer seguimiento de {{.DealTitle}}{{if .Company}} para {{.Company}}{{end}}. Seguimos en la etapa de {{.Stage}} y me gustaría conocer tus comentarios.
{{if .NextStep}}
Quedamos pendientes de: {{.NextStep}}. ¿Hay algo que necesites de nuestra parte para avanzar?
{{else}}
¿Tendrías disponibilidad esta semana para revisar juntos los próximos pasos?
{{end}}{{if .Urgent}}
Han pasado {{.InactivityDays}} días desde nuestro último contacto. Si las prioridades han cambiado, dímelo y ajustamos el plan.
{{end}}
Un saludo,
{{.SenderName}}`)),
	"Cold": template.Must(template.New("body-cold").Parse(
		`Hola {{.ContactName}},

Hace tiempo que no hablamos sobre {{.DealTitle}} y quería retomar el contacto. Entiendo que las prioridades cambian, así que dime si sigue teniendo sentido para {{if .Company}}{{.Company}}{{else}}tu equipo{{end}}.

Si prefieres que lo dejemos para más adelante, no hay problema; solo dime cuándo sería un buen momento para volver a hablar.
{{if .Urgent}}
Llevamos {{.InactivityDays}} días sin actividad, así que si no recibo respuesta entenderé que por ahora no es el momento.
{{end}}
Un saludo,
{{.SenderName}}`)),
}

// bodyContext wraps emailContext with derived flags for the templates.
type bodyContext struct {
	emailContext
	Urgent bool
}
