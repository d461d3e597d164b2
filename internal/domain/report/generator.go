package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/enzian/enzian/internal/domain/diagnosis"
	"github.com/enzian/enzian/internal/domain/registry"
)

const notInformed = "Não informado"

// severityColors maps the severity label to the badge color used on the
// printable report.
var severityColors = map[string]string{
	"Grave":          "#dc2626",
	"Moderado-Grave": "#ea580c",
	"Moderado":       "#ca8a04",
	"Leve":           "#16a34a",
}

// axisRow is one of the four classification compartments on the report.
type axisRow struct {
	Label string
	Code  string
	Size  string
}

// reportData is the flattened, display-ready view handed to the
// template. All fallbacks are resolved before rendering.
type reportData struct {
	Title    string
	Subtitle string

	PatientName   string
	MedicalRecord string
	DateOfBirth   string
	Contact       string
	DoctorName    string
	DoctorCRM     string
	Specialty     string

	FinalClassification string
	SeverityLabel       string
	SeverityColor       string
	Axes                []axisRow
	Observations        string
	DiagnosisDate       string
	GeneratedAt         string
}

// Generator renders the printable HTML report for a diagnosis.
type Generator struct {
	tmpl *template.Template
}

func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Render produces the report HTML. The patient and doctor records are
// optional; missing fields fall back to the "not informed" placeholder.
func (g *Generator) Render(d *diagnosis.Diagnosis, patient *registry.Patient, doctor *registry.Doctor) ([]byte, error) {
	severity := diagnosis.SeverityTier(d.FinalClassification)

	data := reportData{
		Title:    "Relatório de Classificação de Endometriose",
		Subtitle: "Classificação de Keckstein (Enzian)",

		PatientName:   notInformed,
		MedicalRecord: notInformed,
		DateOfBirth:   "Não informada",
		Contact:       notInformed,
		DoctorName:    notInformed,
		DoctorCRM:     notInformed,
		Specialty:     notInformed,

		FinalClassification: d.FinalClassification,
		SeverityLabel:       severity.Label,
		SeverityColor:       severityColors[severity.Label],
		Axes: []axisRow{
			{Label: "Peritônio", Code: d.Peritoneum, Size: sizeOrDash(d.PeritoneumSize)},
			{Label: "Ovário", Code: d.Ovary, Size: sizeOrDash(d.OvarySize)},
			{Label: "Trompa", Code: d.Tube, Size: sizeOrDash(d.TubeSize)},
			{Label: "Endometriose Profunda", Code: d.DeepEndometriosis, Size: sizeOrDash(d.DeepEndometriosisSize)},
		},
		DiagnosisDate: formatDate(d.CreatedAt),
		GeneratedAt:   formatDateTime(time.Now()),
	}

	if d.Observations != nil && *d.Observations != "" {
		data.Observations = *d.Observations
	}
	if patient != nil {
		data.PatientName = patient.Name
		if patient.MedicalRecord != nil && *patient.MedicalRecord != "" {
			data.MedicalRecord = *patient.MedicalRecord
		}
		if patient.DateOfBirth != nil {
			data.DateOfBirth = formatDate(*patient.DateOfBirth)
		}
		// Phone wins over email, matching the clinic's contact sheet.
		switch {
		case patient.Phone != nil && *patient.Phone != "":
			data.Contact = *patient.Phone
		case patient.Email != nil && *patient.Email != "":
			data.Contact = *patient.Email
		}
	}
	if doctor != nil {
		data.DoctorName = doctor.Name
		if doctor.CRM != "" {
			data.DoctorCRM = doctor.CRM
		}
		if doctor.Specialty != "" {
			data.Specialty = doctor.Specialty
		}
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func sizeOrDash(size *string) string {
	if size == nil || *size == "" {
		return "—"
	}
	return *size
}

// Dates are rendered in the dd/mm/yyyy form used in Brazil.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

const reportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 40px; }
  header { border-bottom: 2px solid #1f2937; padding-bottom: 12px; margin-bottom: 24px; }
  h1 { font-size: 22px; margin: 0; }
  .subtitle { color: #6b7280; font-size: 14px; margin-top: 4px; }
  section { margin-bottom: 24px; }
  h2 { font-size: 15px; text-transform: uppercase; letter-spacing: 0.05em; color: #374151; border-bottom: 1px solid #d1d5db; padding-bottom: 4px; }
  .field { margin: 4px 0; font-size: 14px; }
  .field strong { display: inline-block; min-width: 160px; }
  table { width: 100%; border-collapse: collapse; font-size: 14px; }
  th, td { border: 1px solid #d1d5db; padding: 8px 12px; text-align: left; }
  th { background: #f3f4f6; }
  .classification { font-size: 28px; font-weight: bold; letter-spacing: 0.1em; }
  .badge { display: inline-block; color: #ffffff; background: {{.SeverityColor}}; padding: 4px 14px; border-radius: 9999px; font-size: 14px; font-weight: bold; margin-left: 12px; }
  .observations { white-space: pre-wrap; font-size: 14px; background: #f9fafb; border: 1px solid #e5e7eb; padding: 12px; }
  footer { margin-top: 40px; font-size: 12px; color: #6b7280; border-top: 1px solid #d1d5db; padding-top: 8px; }
  @media print { body { margin: 16px; } }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <div class="subtitle">{{.Subtitle}}</div>
</header>

<section>
  <h2>Paciente</h2>
  <div class="field"><strong>Nome:</strong> {{.PatientName}}</div>
  <div class="field"><strong>Prontuário:</strong> {{.MedicalRecord}}</div>
  <div class="field"><strong>Data de nascimento:</strong> {{.DateOfBirth}}</div>
  <div class="field"><strong>Contato:</strong> {{.Contact}}</div>
</section>

<section>
  <h2>Médico responsável</h2>
  <div class="field"><strong>Nome:</strong> {{.DoctorName}}</div>
  <div class="field"><strong>CRM:</strong> {{.DoctorCRM}}</div>
  <div class="field"><strong>Especialidade:</strong> {{.Specialty}}</div>
</section>

<section>
  <h2>Classificação final</h2>
  <p>
    <span class="classification">{{.FinalClassification}}</span>
    <span class="badge">{{.SeverityLabel}}</span>
  </p>
  <table>
    <tr><th>Compartimento</th><th>Código</th><th>Tamanho da lesão</th></tr>
    {{range .Axes}}<tr><td>{{.Label}}</td><td>{{.Code}}</td><td>{{.Size}}</td></tr>
    {{end}}
  </table>
</section>

{{if .Observations}}<section>
  <h2>Observações</h2>
  <div class="observations">{{.Observations}}</div>
</section>
{{end}}
<section>
  <div class="field"><strong>Data do diagnóstico:</strong> {{.DiagnosisDate}}</div>
</section>

<footer>Documento gerado em {{.GeneratedAt}}.</footer>
</body>
</html>
`
