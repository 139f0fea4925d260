package llm

import (
	"strings"

	_ "embed"
)

var (
	//go:embed prompts/recommend_keywords.txt
	promptRecommendKeywords string
	//go:embed prompts/recommend_resume.txt
	promptRecommendResume string
	//go:embed prompts/required_skills.txt
	promptRequiredSkills string
	//go:embed prompts/roadmap.txt
	promptRoadmap string
)

// RecommendFromKeywordsPrompt builds the job-title recommendation prompt from
// an extracted keyword list.
func RecommendFromKeywordsPrompt(keywords []string) string {
	return render(promptRecommendKeywords, "{{KEYWORDS}}", strings.Join(keywords, ", "))
}

// RecommendFromResumePrompt builds the job-title recommendation prompt from
// full resume text, asking for one title per line.
func RecommendFromResumePrompt(resumeText string) string {
	return render(promptRecommendResume, "{{RESUME_TEXT}}", resumeText)
}

// RequiredSkillsPrompt asks for the top skills needed for a job title, one
// per line.
func RequiredSkillsPrompt(jobTitle string) string {
	return render(promptRequiredSkills, "{{JOB_TITLE}}", jobTitle)
}

// RoadmapPrompt asks for a step-by-step career roadmap toward a job title.
func RoadmapPrompt(jobTitle string) string {
	return render(promptRoadmap, "{{JOB_TITLE}}", jobTitle)
}

func render(template string, pairs ...string) string {
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}
