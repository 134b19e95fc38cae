// Package action turns an accepted intent into a concrete artifact: a
// calendar file, a mailto link or a markdown plan.
package action

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/pkg/types"
)

// Kind is what the caller does with an artifact.
type Kind string

// Artifact kinds
const (
	KindFile     Kind = "file"
	KindMailto   Kind = "mailto"
	KindCalendar Kind = "calendar"
)

// MIME types of generated files.
const (
	MIMEMarkdown = "text/markdown"
	MIMECalendar = "text/calendar"
)

// ErrNothingToSave is returned by Save for artifacts without content.
var ErrNothingToSave = errors.New("action: artifact has no file content")

// Artifact is the output of an executed intent.
type Artifact struct {
	Kind     Kind   `json:"kind"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Content  string `json:"content,omitempty"`
	URL      string `json:"url,omitempty"`
	Message  string `json:"message"`
}

// Save writes the artifact content into dir and returns the path.
func (a Artifact) Save(dir string) (string, error) {
	if a.Content == "" || a.Filename == "" {
		return "", ErrNothingToSave
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("action: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
		return "", fmt.Errorf("action: write %s: %w", path, err)
	}
	return path, nil
}

// Executor builds artifacts. It performs no I/O itself.
type Executor struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock sets the clock used for calendar timestamps.
func WithClock(now func() time.Time) Option {
	return func(x *Executor) { x.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(x *Executor) { x.logger = l }
}

// NewExecutor creates an executor.
func NewExecutor(opts ...Option) *Executor {
	x := &Executor{now: time.Now}
	for _, opt := range opts {
		opt(x)
	}
	x.logger = logging.OrNop(x.logger).Named("action")
	return x
}

// Execute builds the artifact for intent. Both universal action types and
// category labels are accepted; anything else gets a generic action plan.
func (x *Executor) Execute(intent types.Intent, input string) Artifact {
	domain := intent.Domain
	if domain == "" {
		domain = types.DomainGeneral
	}
	prefix := slugOr(string(domain), "general")
	input = strings.TrimSpace(input)

	var a Artifact
	switch intent.Category {
	case string(types.ActionSchedule), types.CategoryPlanning:
		a = x.calendar(prefix, domain, input, intent.Entities)
	case string(types.ActionCommunicate), types.CategoryCommunication:
		a = x.mailto(domain, input, intent.Entities)
	case string(types.ActionLearn), types.CategoryResearch:
		a = markdown(prefix+"_study_plan.md", studyPlan(domain, input),
			fmt.Sprintf("Created %s learning plan", domain))
	case string(types.ActionCreate), types.CategoryCreative, types.CategoryCoding:
		a = markdown(fmt.Sprintf("%s_%s.md", prefix, slugOr(input, "content")), creationPlan(domain, input),
			fmt.Sprintf("Created %s content plan", domain))
	case string(types.ActionAnalyze):
		a = markdown(prefix+"_analysis.md", analysisReport(domain, input),
			fmt.Sprintf("Generated %s analysis report", domain))
	case string(types.ActionOrganize):
		a = markdown(prefix+"_organization_plan.md", organizationPlan(domain, input),
			fmt.Sprintf("Created %s organization plan", domain))
	default:
		a = markdown(prefix+"_action_plan.md", actionPlan(domain, input),
			fmt.Sprintf("Generated %s action plan", domain))
	}

	x.logger.Info("action executed",
		zap.String("category", intent.Category),
		zap.String("kind", string(a.Kind)),
		zap.String("filename", a.Filename))
	return a
}

// ExecutePrediction builds a markdown artifact for a watcher prediction.
func (x *Executor) ExecutePrediction(prediction string) Artifact {
	content, ok := predictionTemplates[prediction]
	if !ok {
		content = fmt.Sprintf("# %s\n\nGenerated based on your current context.\n\n## Next Steps\n- Review the content\n- Customize as needed\n- Take action\n", prediction)
	}
	a := markdown(fmt.Sprintf("%s_%d.md", slugOr(prediction, "prediction"), x.now().Unix()), content,
		fmt.Sprintf("Generated %s", prediction))
	x.logger.Info("prediction executed", zap.String("prediction", prediction), zap.String("filename", a.Filename))
	return a
}

func markdown(filename, content, message string) Artifact {
	return Artifact{
		Kind:     KindFile,
		Filename: filename,
		MIMEType: MIMEMarkdown,
		Content:  content,
		Message:  message,
	}
}

func (x *Executor) calendar(prefix string, domain types.Domain, input string, entities []types.ExtractedEntity) Artifact {
	ev := newEvent(input, entities, x.now())
	return Artifact{
		Kind:     KindCalendar,
		Filename: prefix + "_event.ics",
		MIMEType: MIMECalendar,
		Content:  ev.ICS(),
		Message:  fmt.Sprintf("Calendar event %q created for %s", ev.Title, domain),
	}
}

func (x *Executor) mailto(domain types.Domain, input string, entities []types.ExtractedEntity) Artifact {
	recipient := recipientFor(input, entities)
	subject := fmt.Sprintf("Follow-up: %s", truncate(input, 50))
	body := fmt.Sprintf("Hi %s,\n\nI wanted to follow up regarding: %s\n\nPlease let me know your thoughts.\n\nBest regards,\n[Your name]", recipient, input)

	link := "mailto:?subject=" + mailtoEscape(subject) + "&body=" + mailtoEscape(body)

	return Artifact{
		Kind:    KindMailto,
		URL:     link,
		Message: fmt.Sprintf("Email draft for %s ready (%s)", recipient, domain),
	}
}

func recipientFor(input string, entities []types.ExtractedEntity) string {
	if p, ok := types.FirstEntity(entities, types.EntityPerson); ok {
		return p.Value
	}
	lower := strings.ToLower(input)
	for _, r := range []string{"client", "team", "manager"} {
		if strings.Contains(lower, r) {
			return r
		}
	}
	return "recipient"
}

// mailtoEscape percent-encodes s for a mailto header, with %20 for spaces.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// truncate cuts s to n runes, adding an ellipsis when shortened.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
