package sweep

import (
	"errors"
	"testing"
)

func defaultRule() Rule {
	return Rule{Marker: "Accuracy", AccuracyField: 2, DeviationField: 4}
}

func TestRule_Extract(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		line string
		want Metric
	}{
		{
			name: "evaluator log line",
			rule: defaultRule(),
			line: "INFO:P-WL:Accuracy: 85.50 +- 1.23",
			want: Metric{Accuracy: "85.50", Deviation: "1.23"},
		},
		{
			name: "plain layout",
			rule: defaultRule(),
			line: "Accuracy 0.87 stdev 0.05",
			want: Metric{Accuracy: "0.87", Deviation: "0.05"},
		},
		{
			name: "extra whitespace",
			rule: defaultRule(),
			line: "  Accuracy:   0.87\t+-  0.05  ",
			want: Metric{Accuracy: "0.87", Deviation: "0.05"},
		},
		{
			name: "short line keeps what exists",
			rule: defaultRule(),
			line: "Accuracy: 0.87",
			want: Metric{Accuracy: "0.87", Deviation: ""},
		},
		{
			name: "empty line",
			rule: defaultRule(),
			line: "",
			want: Metric{},
		},
		{
			name: "custom field positions",
			rule: Rule{Marker: "acc", AccuracyField: 3, DeviationField: 5},
			line: "final acc 91.2 +/- 2.2 pct",
			want: Metric{Accuracy: "91.2", Deviation: "2.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Extract(tt.line)
			if got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRule_Find(t *testing.T) {
	out := []byte("INFO:P-WL:Reading graphs\nINFO:P-WL:Mean 10-fold accuracy: 83.00\nINFO:P-WL:Accuracy: 85.50 +- 1.23\n")

	m, err := defaultRule().Find(out)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := Metric{Accuracy: "85.50", Deviation: "1.23"}
	if m != want {
		t.Errorf("Find = %+v, want %+v", m, want)
	}
}

func TestRule_Find_FirstMatchWins(t *testing.T) {
	out := []byte("Accuracy 0.10 stdev 0.01\nAccuracy 0.99 stdev 0.09\n")

	m, err := defaultRule().Find(out)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.Accuracy != "0.10" {
		t.Errorf("Accuracy = %q, want first match 0.10", m.Accuracy)
	}
}

func TestRule_Find_CaseSensitive(t *testing.T) {
	out := []byte("mean accuracy: 85.50 +- 1.23\n")

	_, err := defaultRule().Find(out)
	if !errors.Is(err, ErrNoMetric) {
		t.Errorf("Find err = %v, want ErrNoMetric for lowercase marker", err)
	}
}

func TestRule_Find_NoMatch(t *testing.T) {
	_, err := defaultRule().Find([]byte("nothing useful here\n"))
	if !errors.Is(err, ErrNoMetric) {
		t.Errorf("Find err = %v, want ErrNoMetric", err)
	}
}

func TestMetric_Short(t *testing.T) {
	if (Metric{Accuracy: "1", Deviation: "2"}).Short() {
		t.Error("complete metric reported short")
	}
	if !(Metric{Accuracy: "1"}).Short() {
		t.Error("metric without deviation not reported short")
	}
	if !(Metric{}).Short() {
		t.Error("zero metric not reported short")
	}
}
