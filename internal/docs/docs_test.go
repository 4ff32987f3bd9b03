package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics()
	want := []string{"cli", "config", "keys", "options", "overview", "rules", "web"}
	if strings.Join(topics, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, topics)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Options ")
	if !ok || !strings.Contains(body, "minute-interval") {
		t.Fatalf("expected options topic, got ok=%v", ok)
	}
	for _, bad := range []string{"", "missing", "../docs", "content/rules"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be unknown", bad)
		}
	}
}
