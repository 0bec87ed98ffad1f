package model

// All returns every model in migration order.
func All() []any {
	return []any{
		&Company{},
		&JobOffer{},
		&Candidate{},
		&CVExperience{},
		&CVEducation{},
		&CVDocument{},
		&CVEmbedding{},
		&Application{},
		&Ranking{},
		&PreInterview{},
		&PreInterviewQuestion{},
	}
}
