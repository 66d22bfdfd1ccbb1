package docanalysis

import (
	"strings"
	"testing"
)

func TestRecommendNoTriggersYieldsGenericPairPlusClosing(t *testing.T) {
	recs := Recommend("обычный текст без ключевых слов")
	if len(recs) != 3 {
		t.Fatalf("expected exactly 3 entries, got %d: %v", len(recs), recs)
	}
	if recs[0] != GenericRecommendations[0] || recs[1] != GenericRecommendations[1] {
		t.Fatalf("expected generic pair first, got %v", recs)
	}
	if recs[2] != ClosingRecommendation {
		t.Fatalf("expected closing recommendation last, got %q", recs[2])
	}
}

func TestRecommendTopicsFireIndependently(t *testing.T) {
	recs := Recommend("у пациента диабет и жалобы на сердце")
	var cardio, diabetes []string
	for _, topic := range Topics {
		switch topic.Name {
		case "cardiovascular":
			cardio = topic.Recommendations
		case "diabetes":
			diabetes = topic.Recommendations
		}
	}
	for _, want := range append(append([]string{}, cardio...), diabetes...) {
		if !containsString(recs, want) {
			t.Fatalf("missing recommendation %q in %v", want, recs)
		}
	}
	if len(recs) != len(cardio)+len(diabetes)+1 {
		t.Fatalf("expected union of both topics plus closing, got %d entries", len(recs))
	}
	if recs[len(recs)-1] != ClosingRecommendation {
		t.Fatalf("closing recommendation must be last")
	}
}

func TestRecommendClosingAlwaysPresent(t *testing.T) {
	for _, text := range []string{"", "гинеколог", "анем сердц почк"} {
		recs := Recommend(text)
		if recs[len(recs)-1] != ClosingRecommendation {
			t.Fatalf("text %q: closing recommendation missing", text)
		}
	}
}

func TestRecommendTopicOrderFollowsTable(t *testing.T) {
	recs := Recommend("сердце и беременность")
	// pregnancy precedes cardiovascular in the table, so its entries come first.
	pregFirst := indexOf(recs, "УЗИ плода и матки")
	cardioFirst := indexOf(recs, "ЭКГ (электрокардиограмма)")
	if pregFirst < 0 || cardioFirst < 0 || pregFirst > cardioFirst {
		t.Fatalf("expected table order, got %v", recs)
	}
}

func TestTopicsTableShape(t *testing.T) {
	if len(Topics) < 10 {
		t.Fatalf("expected at least 10 topics, got %d", len(Topics))
	}
	for _, topic := range Topics {
		if topic.Name == "" || len(topic.Triggers) == 0 || len(topic.Recommendations) == 0 {
			t.Fatalf("malformed topic %+v", topic)
		}
		for _, trigger := range topic.Triggers {
			if trigger != strings.ToLower(trigger) {
				t.Fatalf("topic %s: trigger %q must be lowercase", topic.Name, trigger)
			}
		}
	}
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func indexOf(list []string, want string) int {
	for i, v := range list {
		if v == want {
			return i
		}
	}
	return -1
}
