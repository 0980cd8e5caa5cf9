// Package classify assigns each timeline comment exactly one transcript role.
package classify

import (
	"strings"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/textnorm"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
)

// DefaultMinLength is the visible-text length below which a comment is treated as noise.
const DefaultMinLength = 20

// Classifier partitions comments into customer, operator, system and private-memo roles.
// Precedence: system signal, explicit private flag, requester authorship, everything else.
type Classifier struct {
	systemPhrases []string
	customerNorm  *textnorm.Normalizer
	operatorNorm  *textnorm.Normalizer
	minLength     int
}

func New(rs *rules.RuleSet, minLength int) *Classifier {
	if minLength < 0 {
		minLength = 0
	}
	phrases := make([]string, 0, len(rs.SystemPhrases))
	for _, p := range rs.SystemPhrases {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, strings.ToLower(p))
		}
	}
	return &Classifier{
		systemPhrases: phrases,
		customerNorm:  textnorm.New(rs.CustomerBoilerplate),
		operatorNorm:  textnorm.New(rs.OperatorBoilerplate),
		minLength:     minLength,
	}
}

func (c *Classifier) CustomerNormalizer() *textnorm.Normalizer {
	return c.customerNorm
}

func (c *Classifier) OperatorNormalizer() *textnorm.Normalizer {
	return c.operatorNorm
}

// IsSystem reports whether the comment is a platform event: either its channel says so
// or its visible text carries a system phrase. Author and visibility are not consulted.
func (c *Classifier) IsSystem(cm *ticket.Comment) bool {
	if cm.Channel().IsSystem() {
		return true
	}
	text := strings.ToLower(textnorm.Verbatim(cm.Content()))
	for _, p := range c.systemPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// RoleOf applies the precedence rules to a single comment with a known requester.
func (c *Classifier) RoleOf(cm *ticket.Comment, requesterID string) vo.Role {
	switch {
	case c.IsSystem(cm):
		return vo.RoleSystem
	case cm.IsPrivate():
		return vo.RolePrivateMemo
	case requesterID != "" && cm.AuthorID() == requesterID:
		return vo.RoleCustomer
	default:
		return vo.RoleOperator
	}
}

// TextFor renders the visible text of a comment for its role: system notices verbatim,
// customer text with customer boilerplate removed, operator text and memos with operator boilerplate removed.
func (c *Classifier) TextFor(cm *ticket.Comment, role vo.Role) string {
	switch role {
	case vo.RoleSystem:
		return textnorm.Verbatim(cm.Content())
	case vo.RoleCustomer:
		return c.customerNorm.Normalize(cm.Content())
	default:
		return c.operatorNorm.Normalize(cm.Content())
	}
}

// Classify returns the qualifying comments in chronological order, each with one role.
// Comments whose visible text is shorter than the minimum length are dropped, except system
// events, which are kept whenever they have any text. When requesterID is empty the author of
// the earliest qualifying public comment is taken as the requester. Classify never fails.
func (c *Classifier) Classify(comments []*ticket.Comment, requesterID string) []ticket.ClassifiedComment {
	return c.run(comments, requesterID, c.minLength)
}

// Partition is Classify without the length filter; every comment with visible text is kept.
func (c *Classifier) Partition(comments []*ticket.Comment, requesterID string) []ticket.ClassifiedComment {
	return c.run(comments, requesterID, 1)
}

type candidate struct {
	comment *ticket.Comment
	system  bool
}

func (c *Classifier) run(comments []*ticket.Comment, requesterID string, minLength int) []ticket.ClassifiedComment {
	ordered := ticket.MergeTimeline(comments, nil)

	candidates := make([]candidate, 0, len(ordered))
	for _, cm := range ordered {
		visible := textnorm.Verbatim(cm.Content())
		if visible == "" {
			continue
		}
		system := c.IsSystem(cm)
		if !system && textnorm.RuneLen(visible) < minLength {
			continue
		}
		candidates = append(candidates, candidate{comment: cm, system: system})
	}

	// inferred holds the index of the comment standing in for the requester when no id is known.
	inferred := -1
	if requesterID == "" {
		for i, cand := range candidates {
			if !cand.system && !cand.comment.IsPrivate() {
				inferred = i
				requesterID = cand.comment.AuthorID()
				break
			}
		}
	}

	out := make([]ticket.ClassifiedComment, 0, len(candidates))
	for i, cand := range candidates {
		var role vo.Role
		switch {
		case cand.system:
			role = vo.RoleSystem
		case cand.comment.IsPrivate():
			role = vo.RolePrivateMemo
		case i == inferred:
			role = vo.RoleCustomer
		case requesterID != "" && cand.comment.AuthorID() == requesterID:
			role = vo.RoleCustomer
		default:
			role = vo.RoleOperator
		}
		out = append(out, ticket.ClassifiedComment{
			Comment: cand.comment,
			Role:    role,
			Text:    c.TextFor(cand.comment, role),
		})
	}
	return out
}
