package docanalysis

// Topic is one keyword-triggered bucket of follow-up tests. Topics fire
// independently: a document mentioning both a cardiovascular and a
// diabetes keyword appends both lists. That union semantics is the point;
// one document can legitimately concern several body systems.
type Topic struct {
	Name            string
	Triggers        []string
	Recommendations []string
}

// Topics is the versioned recommendation table. Tests enumerate it, so
// extending the table must not require control-flow changes.
var Topics = []Topic{
	{
		Name:     "gynecology",
		Triggers: []string{"гинеколог", "gynecol", "женск", "матк", "uterus"},
		Recommendations: []string{
			"УЗИ органов малого таза (если не проводилось в последние 6 месяцев)",
			"Мазок на цитологию (Пап-тест) - ежегодно",
			"Анализ на гормоны (эстроген, прогестерон)",
		},
	},
	{
		Name:     "pregnancy",
		Triggers: []string{"беремен", "pregnan", "плод"},
		Recommendations: []string{
			"Анализ крови на ХГЧ (хорионический гонадотропин)",
			"УЗИ плода и матки",
			"Общий анализ крови и мочи",
		},
	},
	{
		Name:     "cardiovascular",
		Triggers: []string{"сердц", "card", "давлен", "pressure", "гипертон"},
		Recommendations: []string{
			"ЭКГ (электрокардиограмма)",
			"ЭхоКГ (УЗИ сердца)",
			"Анализ крови на холестерин и липидный профиль",
		},
	},
	{
		Name:     "diabetes",
		Triggers: []string{"диабет", "diabet", "сахар", "glucose", "глюкоз"},
		Recommendations: []string{
			"Анализ крови на глюкозу (натощак)",
			"Гликированный гемоглобин (HbA1c)",
			"Тест на толерантность к глюкозе",
		},
	},
	{
		Name:     "thyroid",
		Triggers: []string{"щитовид", "thyroid", "гормон"},
		Recommendations: []string{
			"Анализ на гормоны щитовидной железы (TSH, T3, T4)",
			"УЗИ щитовидной железы",
		},
	},
	{
		Name:     "liver",
		Triggers: []string{"печен", "liver", "гепат"},
		Recommendations: []string{
			"Печеночные пробы (ALT, AST, билирубин)",
			"УЗИ печени и желчного пузыря",
		},
	},
	{
		Name:     "kidney",
		Triggers: []string{"почк", "kidney", "renal"},
		Recommendations: []string{
			"Общий анализ мочи",
			"Анализ крови на креатинин и мочевину",
			"УЗИ почек",
		},
	},
	{
		Name:     "respiratory",
		Triggers: []string{"легк", "lung", "бронх", "кашел"},
		Recommendations: []string{
			"Рентген грудной клетки",
			"Спирометрия (функция внешнего дыхания)",
		},
	},
	{
		Name:     "infection",
		Triggers: []string{"инфекц", "infection", "воспален"},
		Recommendations: []string{
			"Общий анализ крови (лейкоциты, СОЭ)",
			"Анализ на C-реактивный белок (CRP)",
		},
	},
	{
		Name:     "anemia",
		Triggers: []string{"анем", "anemia", "гемоглобин"},
		Recommendations: []string{
			"Общий анализ крови (гемоглобин, эритроциты)",
			"Анализ на железо, ферритин",
			"Витамин B12 и фолиевая кислота",
		},
	},
}

// GenericRecommendations is appended when no topic fires at all.
var GenericRecommendations = []string{
	"Общий анализ крови и мочи",
	"Биохимический анализ крови",
}

// ClosingRecommendation ends every recommendation set.
const ClosingRecommendation = "Повторная консультация с врачом для обсуждения результатов"

// Recommend maps the combined lowercase text of a patient's documents to
// a list of suggested follow-up tests. Duplicates across co-firing topics
// are kept as-is.
func Recommend(lowerText string) []string {
	out := []string{}
	for _, topic := range Topics {
		if containsAny(lowerText, topic.Triggers) {
			out = append(out, topic.Recommendations...)
		}
	}
	if len(out) == 0 {
		out = append(out, GenericRecommendations...)
	}
	return append(out, ClosingRecommendation)
}
