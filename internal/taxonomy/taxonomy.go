// Package taxonomy holds the fixed domain/skill classification for SAT
// questions. The tables are process-wide read-only configuration: they are
// never mutated after load, so no synchronization is needed.
package taxonomy

import "github.com/Adiar1/Crackd/internal/models"

type domain struct {
	name   string
	skills []string
}

var mathDomains = []domain{
	{"Algebra", []string{
		"Linear equations in one variable",
		"Linear functions",
		"Linear equations in two variables",
		"Systems of two linear equations in two variables",
		"Linear inequalities in one or two variables",
	}},
	{"Advanced Math", []string{
		"Nonlinear functions",
		"Nonlinear equations in one variable and systems of equations in two variables",
		"Equivalent expressions",
	}},
	{"Problem-Solving and Data Analysis", []string{
		"Ratios, rates, proportional relationships, and units",
		"Percentages",
		"One-variable data: Distributions and measures of center and spread",
		"Two-variable data: Models and scatterplots",
		"Probability and conditional probability",
		"Inference from sample statistics and margin of error",
		"Evaluating statistical claims: Observational studies and experiments",
	}},
	{"Geometry and Trigonometry", []string{
		"Area and volume",
		"Lines, angles, and triangles",
		"Right triangles and trigonometry",
		"Circles",
	}},
}

var ebrwDomains = []domain{
	{"Information and Ideas", []string{
		"Central Ideas and Details",
		"Inferences",
		"Command of Evidence",
	}},
	{"Craft and Structure", []string{
		"Words in Context",
		"Text Structure and Purpose",
		"Cross-Text Connections",
	}},
	{"Expression of Ideas", []string{
		"Rhetorical Synthesis",
		"Transitions",
	}},
	{"Standard English Conventions", []string{
		"Boundaries",
		"Form, Structure, and Sense",
	}},
}

func table(questionType string) []domain {
	if questionType == models.TypeMath {
		return mathDomains
	}
	return ebrwDomains
}

// Domains returns the domain names for a question type in their fixed order.
func Domains(questionType string) []string {
	tbl := table(questionType)
	names := make([]string, len(tbl))
	for i, d := range tbl {
		names[i] = d.name
	}
	return names
}

// Skills returns the skill names under a domain in their fixed order, or nil
// if the domain does not exist for the question type.
func Skills(questionType, domainName string) []string {
	for _, d := range table(questionType) {
		if d.name == domainName {
			skills := make([]string, len(d.skills))
			copy(skills, d.skills)
			return skills
		}
	}
	return nil
}

// Valid reports whether the (domain, skill) pair belongs to the taxonomy for
// the question type.
func Valid(questionType, domainName, skill string) bool {
	for _, s := range Skills(questionType, domainName) {
		if s == skill {
			return true
		}
	}
	return false
}
