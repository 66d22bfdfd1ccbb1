package docanalysis

import "testing"

func TestExtractPatientNameLabeled(t *testing.T) {
	fields := ExtractFields("Медицинская карта\nПациент: Анна Смирнова\nЖалобы: нет")
	if fields.PatientName != "Анна Смирнова" {
		t.Fatalf("unexpected patient name %q", fields.PatientName)
	}
}

func TestExtractPatientNameEnglishLabel(t *testing.T) {
	fields := ExtractFields("Patient: Anna Smirnova\nComplaints: none")
	if fields.PatientName != "Anna Smirnova" {
		t.Fatalf("unexpected patient name %q", fields.PatientName)
	}
}

func TestExtractPatientNameStopsAtLineEnd(t *testing.T) {
	// A two-token name followed by a line starting with a capitalized
	// word must not absorb that word across the newline.
	cases := []string{
		"Пациент: Иван Петров\nДата: 01.02.2023",
		"Пациент: Иван Петров\nЖалобы на головную боль",
	}
	for _, text := range cases {
		fields := ExtractFields(text)
		if fields.PatientName != "Иван Петров" {
			t.Fatalf("text %q: unexpected patient name %q", text, fields.PatientName)
		}
	}
}

func TestExtractPatientNameBareLine(t *testing.T) {
	fields := ExtractFields("Справка\nИванов Иван Иванович\nвыдана по месту требования")
	if fields.PatientName != "Иванов Иван Иванович" {
		t.Fatalf("unexpected patient name %q", fields.PatientName)
	}
}

func TestExtractPatientNameLabeledWinsOverBareLine(t *testing.T) {
	text := "Петров Петр Петрович\nПациент: Анна Смирнова"
	fields := ExtractFields(text)
	if fields.PatientName != "Анна Смирнова" {
		t.Fatalf("labeled strategy must win, got %q", fields.PatientName)
	}
}

func TestExtractPatientNameAbsent(t *testing.T) {
	fields := ExtractFields("текст без имен и меток")
	if fields.PatientName != "" {
		t.Fatalf("expected absent patient name, got %q", fields.PatientName)
	}
}

func TestExtractDoctorVariants(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Врач: Dr. Smith", "Dr. Smith"},
		{"Доктор: Петров П.П.", "Петров П.П."},
		{"Doctor: John Doe", "John Doe"},
		{"Лечащий врач: Сидорова А.А.", "Сидорова А.А."},
		{"без подписи врача в формате метки", NotSpecified},
	}
	for _, tc := range cases {
		fields := ExtractFields(tc.text)
		if fields.DoctorName != tc.want {
			t.Fatalf("text %q: doctor %q, want %q", tc.text, fields.DoctorName, tc.want)
		}
	}
}

func TestExtractVisitDateLabeledFirst(t *testing.T) {
	fields := ExtractFields("Выдано 05.05.2020\nДата: 01.02.2023")
	if fields.VisitDate != "01.02.2023" {
		t.Fatalf("labeled date must win, got %q", fields.VisitDate)
	}
}

func TestExtractVisitDateBareToken(t *testing.T) {
	fields := ExtractFields("осмотр проведен 7/8/21 амбулаторно")
	if fields.VisitDate != "7/8/21" {
		t.Fatalf("unexpected date %q", fields.VisitDate)
	}
}

func TestExtractVisitDateAbsent(t *testing.T) {
	fields := ExtractFields("документ без единой даты")
	if fields.VisitDate != NotSpecified {
		t.Fatalf("expected %q, got %q", NotSpecified, fields.VisitDate)
	}
}

func TestClassifyDocumentTypePriority(t *testing.T) {
	// Both prescription and lab keywords present: priority order wins.
	if got := ClassifyDocumentType("рецепт на лекарство, приложен анализ крови"); got != TypePrescription {
		t.Fatalf("expected prescription, got %s", got)
	}
}

func TestClassifyDocumentTypeTable(t *testing.T) {
	cases := []struct {
		text string
		want DocumentType
	}{
		{"Prescription Rx #42", TypePrescription},
		{"запись о консультация терапевта", TypeConsultation},
		{"результаты: анализ мочи", TypeLabResults},
		{"выписка из стационара", TypeDischarge},
		{"произвольный документ", TypeGeneric},
		{"", TypeGeneric},
	}
	for _, tc := range cases {
		if got := ClassifyDocumentType(tc.text); got != tc.want {
			t.Fatalf("text %q: got %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestExtractEmptyTextDefaults(t *testing.T) {
	fields := ExtractFields("")
	if fields.PatientName != "" || fields.DoctorName != NotSpecified || fields.VisitDate != NotSpecified || fields.DocumentType != TypeGeneric {
		t.Fatalf("empty text must yield all defaults, got %+v", fields)
	}
}
