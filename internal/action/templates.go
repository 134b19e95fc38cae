package action

import (
	"fmt"

	"github.com/scrypster/cos/pkg/types"
)

const footer = "\n---\n*Generated by COS*\n"

func studyPlan(domain types.Domain, input string) string {
	return fmt.Sprintf(`# %s Study Plan

## Learning Objective
%s

## Study Schedule
**Week 1**: Foundation concepts
**Week 2**: Intermediate topics
**Week 3**: Advanced applications
**Week 4**: Practice and review

## Key Topics
- Core principles
- Practical applications
- Common challenges
- Best practices

## Study Methods
1. **Read**: Comprehensive materials
2. **Practice**: Hands-on exercises
3. **Review**: Regular reinforcement
4. **Test**: Knowledge validation
`, domain, input) + footer
}

func creationPlan(domain types.Domain, input string) string {
	return fmt.Sprintf(`# %s Creation Plan

## Goal
%s

## Steps
1. **Define**: Scope and audience
2. **Draft**: First version
3. **Refine**: Incorporate feedback
4. **Deliver**: Final output

## Checklist
- [ ] Requirements captured
- [ ] First draft complete
- [ ] Review scheduled
`, domain, input) + footer
}

func analysisReport(domain types.Domain, input string) string {
	return fmt.Sprintf(`# %s Analysis Report

## Analysis Subject
%s

## Key Findings
- Primary observations
- Important patterns
- Notable trends

## Recommendations
1. Immediate actions
2. Short-term improvements
3. Long-term strategies
`, domain, input) + footer
}

func organizationPlan(domain types.Domain, input string) string {
	return fmt.Sprintf(`# %s Organization Plan

## Organization Goal
%s

## Strategy
1. **Sort**: Categorize items and tasks
2. **Prioritize**: Rank by importance
3. **Structure**: Create a logical system
4. **Maintain**: Establish routines
`, domain, input) + footer
}

func actionPlan(domain types.Domain, input string) string {
	return fmt.Sprintf(`# %s Action Plan

## Objective
%s

## Approach
1. **Research**: Gather relevant information
2. **Plan**: Develop strategy
3. **Execute**: Take action
4. **Review**: Evaluate results
`, domain, input) + footer
}

// predictionTemplates holds richer content for the watcher's predictions;
// any other prediction gets a generic outline.
var predictionTemplates = map[string]string{
	"Email templates": `# Email Templates

## Meeting Request
Subject: Meeting Request - [Topic]

Hi [Name],

I'd like to schedule a meeting to discuss [topic].

Best regards,
[Your name]

## Follow-up
Subject: Following up on [Topic]

Hi [Name],

Just following up on our previous conversation about [topic].

Best,
[Your name]
` + footer,
	"Meeting agenda": `# Meeting Agenda

**Date:** [Date]
**Attendees:** [Names]

## 1. Opening (5 min)
## 2. Main Discussion (30 min)
## 3. Action Items (10 min)
- [ ] [Action] - [Owner]
## 4. Next Steps (5 min)
` + footer,
	"Learning checklist": `# Learning Checklist

- [ ] Watch once without notes
- [ ] Write down key points
- [ ] Try the examples yourself
- [ ] Summarize in your own words
` + footer,
	"Code templates": "# Code Templates\n\n## HTTP handler\n```go\nfunc handler(w http.ResponseWriter, r *http.Request) {\n\tw.WriteHeader(http.StatusOK)\n}\n```\n" + footer,
}
