package llm

import (
	"context"
	"strings"
	"testing"
)

func TestRecommendFromKeywordsPrompt(t *testing.T) {
	prompt := RecommendFromKeywordsPrompt([]string{"python", "sql"})
	if !strings.Contains(prompt, "python, sql") {
		t.Errorf("prompt missing keywords: %q", prompt)
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("unresolved placeholder in prompt: %q", prompt)
	}
}

func TestPromptsResolvePlaceholders(t *testing.T) {
	prompts := map[string]string{
		"resume":  RecommendFromResumePrompt("some resume text"),
		"skills":  RequiredSkillsPrompt("Data Engineer"),
		"roadmap": RoadmapPrompt("Data Engineer"),
	}
	for name, p := range prompts {
		if strings.Contains(p, "{{") || strings.Contains(p, "}}") {
			t.Errorf("%s: unresolved placeholder: %q", name, p)
		}
		if !strings.Contains(p, "career counselor") {
			t.Errorf("%s: missing counselor framing: %q", name, p)
		}
	}
}

func TestDryRunClientEchoesPrompt(t *testing.T) {
	out, err := DryRunClient{}.Generate(context.Background(), "hello prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hello prompt") {
		t.Errorf("dry-run output missing prompt: %q", out)
	}
	if !strings.Contains(out, "dry-run") {
		t.Errorf("dry-run output missing marker: %q", out)
	}
}
