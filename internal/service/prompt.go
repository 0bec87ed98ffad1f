package service

import "fmt"

const (
	SystemExtractCV      = "You are an assistant that extracts structured information from CVs as JSON. Reply with the JSON object only."
	SystemInterviewer    = "You are a recruiting assistant who writes challenging, personalised interview questions."
	SystemAnswerEvaluate = "You are an interview evaluator who analyses answers and gives structured feedback as JSON."
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractCVPrompt asks for the candidate profile hidden in a CV.
func (pb *PromptBuilder) BuildExtractCVPrompt(cvText string) string {
	return fmt.Sprintf(`Extract the following information from the CV below and return it as JSON.
Make sure the JSON is valid and contains these fields:
- "full_name": first and last names of the candidate.
- "email": e-mail address.
- "phone": phone number.
- "summary": short description of the candidate's profile.
- "experience": a list of objects, each with "position", "company", "period", "description".
- "education": a list of objects, each with "degree", "institution", "period".
- "skills": a list of strings.

If a field cannot be found, leave it as an empty string or an empty array.

CV:
%s`, cvText)
}

// BuildQuestionsPrompt asks for count open interview questions as a numbered list.
func (pb *PromptBuilder) BuildQuestionsPrompt(cvSummary, jobDescription string, count int) string {
	return fmt.Sprintf(`Write %d interview questions for a candidate based on their CV summary and the job description.
The questions must be challenging and explore their experience with the technologies mentioned.
Make them open questions that invite detailed answers.
Return the questions as a numbered list and nothing else.

Candidate CV summary:
%s

Job description:
%s`, count, cvSummary, jobDescription)
}

func (pb *PromptBuilder) BuildEvaluateAnswerPrompt(question, answer string) string {
	return fmt.Sprintf(`Evaluate the following answer a candidate gave to an interview question.
Rate the answer on a scale from 1 to 5 (1=poor, 5=excellent) for:
- Relevance
- Technical depth
- Clarity of the explanation
- Identification of challenges and solutions

Then give a short comment about the answer and suggest a follow-up question.

Question: %s
Candidate answer: %s

Output format (JSON):
{
  "relevance": int,
  "technical_depth": int,
  "clarity": int,
  "challenges_solutions": int,
  "comment": string,
  "follow_up_question": string
}`, question, answer)
}
