package rules

import (
	"context"
	"strings"
	"time"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"

	"golang.org/x/text/unicode/norm"
)

// fold lowercases with Go's locale-independent case mapping.
func fold(s string) string {
	return strings.ToLower(s)
}

// body extracts the message content from a trigger. Triggers without a
// message never match message conditions.
func body(t *trigger.Trigger) (string, bool) {
	m := t.Message()
	if m == nil {
		return "", false
	}
	return m.Content, true
}

type messageIsExactly struct {
	content    string
	ignoreCase bool
}

func newMessageIsExactly(opts Options) (Condition, error) {
	content, err := opts.RequireString("content")
	if err != nil {
		return nil, err
	}
	ignoreCase, err := opts.Bool("ignore_case", false)
	if err != nil {
		return nil, err
	}
	if ignoreCase {
		content = fold(content)
	}
	return &messageIsExactly{content: content, ignoreCase: ignoreCase}, nil
}

func (c *messageIsExactly) Kind() string { return "MESSAGE_IS_EXACTLY" }

func (c *messageIsExactly) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	s, ok := body(t)
	if !ok {
		return false, nil
	}
	if c.ignoreCase {
		s = fold(s)
	}
	// Length mismatch is the cheap reject before a full compare.
	if len(s) != len(c.content) {
		return false, nil
	}
	return s == c.content, nil
}

type messageStartsWith struct {
	prefix     string
	ignoreCase bool
}

func newMessageStartsWith(opts Options) (Condition, error) {
	prefix, err := opts.RequireString("content")
	if err != nil {
		return nil, err
	}
	ignoreCase, err := opts.Bool("ignore_case", false)
	if err != nil {
		return nil, err
	}
	if ignoreCase {
		prefix = fold(prefix)
	}
	return &messageStartsWith{prefix: prefix, ignoreCase: ignoreCase}, nil
}

func (c *messageStartsWith) Kind() string { return "MESSAGE_STARTS_WITH" }

func (c *messageStartsWith) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	s, ok := body(t)
	if !ok {
		return false, nil
	}
	if c.ignoreCase {
		s = fold(s)
	}
	// First-byte reject before the prefix scan.
	if len(s) == 0 || len(s) < len(c.prefix) || s[0] != c.prefix[0] {
		return false, nil
	}
	return strings.HasPrefix(s, c.prefix), nil
}

type messageContains struct {
	content    string
	ignoreCase bool
}

func newMessageContains(opts Options) (Condition, error) {
	content, err := opts.RequireString("content")
	if err != nil {
		return nil, err
	}
	ignoreCase, err := opts.Bool("ignore_case", false)
	if err != nil {
		return nil, err
	}
	if ignoreCase {
		content = fold(content)
	}
	return &messageContains{content: content, ignoreCase: ignoreCase}, nil
}

func (c *messageContains) Kind() string { return "MESSAGE_CONTAINS" }

func (c *messageContains) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	s, ok := body(t)
	if !ok {
		return false, nil
	}
	if c.ignoreCase {
		s = fold(s)
	}
	if len(s) < len(c.content) {
		return false, nil
	}
	return strings.Contains(s, c.content), nil
}

type messageContainsAnyOf struct {
	matches    []string
	ignoreCase bool
	normalize  bool
	form       norm.Form
}

func parseNormForm(name string) (norm.Form, error) {
	switch name {
	case "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKC":
		return norm.NFKC, nil
	case "NFKD":
		return norm.NFKD, nil
	default:
		return norm.NFKD, errs.Config("unknown normalization form %q", name)
	}
}

func newMessageContainsAnyOf(opts Options) (Condition, error) {
	matches, err := opts.RequireStringList("matches")
	if err != nil {
		return nil, err
	}
	ignoreCase, err := opts.Bool("ignore_case", false)
	if err != nil {
		return nil, err
	}
	normalize, err := opts.Bool("normalize_unicode", false)
	if err != nil {
		return nil, err
	}
	formName, err := opts.String("normalization_form", "NFKD")
	if err != nil {
		return nil, err
	}
	form, err := parseNormForm(formName)
	if err != nil {
		return nil, err
	}

	c := &messageContainsAnyOf{ignoreCase: ignoreCase, normalize: normalize, form: form}
	c.matches = make([]string, 0, len(matches))
	for _, m := range matches {
		c.matches = append(c.matches, c.canonical(m))
	}
	return c, nil
}

func (c *messageContainsAnyOf) canonical(s string) string {
	if c.normalize {
		s = c.form.String(s)
	}
	if c.ignoreCase {
		s = fold(s)
	}
	return s
}

func (c *messageContainsAnyOf) Kind() string { return "MESSAGE_CONTAINS_ANY_OF" }

func (c *messageContainsAnyOf) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	raw, ok := body(t)
	if !ok {
		return false, nil
	}
	s := c.canonical(raw)
	for _, m := range c.matches {
		if len(s) < len(m) {
			continue
		}
		if strings.Contains(s, m) {
			return true, nil
		}
	}
	return false, nil
}

// mediaKind selects which message payloads a count condition inspects.
type mediaKind uint8

const (
	mediaEmbeds mediaKind = iota
	mediaAttachments
	mediaEither
)

// messageHasMedia suspends for a configured delay before counting, since
// the platform resolves embeds asynchronously after the message posts.
type messageHasMedia struct {
	kind     string
	media    mediaKind
	minCount int
	delay    time.Duration
}

func newMediaCondition(kind string, media mediaKind, defaultDelay time.Duration, opts Options) (Condition, error) {
	minCount, err := opts.Int("min_count", 1)
	if err != nil {
		return nil, err
	}
	if minCount < 1 {
		return nil, errs.Config("min_count must be at least 1, got %d", minCount)
	}
	delay, err := opts.Millis("delay", defaultDelay)
	if err != nil {
		return nil, err
	}
	return &messageHasMedia{kind: kind, media: media, minCount: minCount, delay: delay}, nil
}

func newMessageHasEmbed(opts Options) (Condition, error) {
	return newMediaCondition("MESSAGE_HAS_EMBED", mediaEmbeds, 2000*time.Millisecond, opts)
}

func newMessageHasAttachment(opts Options) (Condition, error) {
	return newMediaCondition("MESSAGE_HAS_ATTACHMENT", mediaAttachments, 0, opts)
}

func newMessageHasEmbedOrAttachment(opts Options) (Condition, error) {
	return newMediaCondition("MESSAGE_HAS_EMBED_OR_ATTACHMENT", mediaEither, 2000*time.Millisecond, opts)
}

func (c *messageHasMedia) Kind() string { return c.kind }

func (c *messageHasMedia) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	msg := t.Message()
	if msg == nil {
		return false, nil
	}

	if err := env.Sleep(ctx, c.delay); err != nil {
		return false, err
	}

	// Refetch so counts reflect metadata the platform attached after the
	// original event fired.
	current, err := env.Client.FetchMessage(ctx, msg.ChannelID, msg.ID)
	if err != nil {
		// The message may have been deleted during the delay.
		return false, err
	}

	count := 0
	switch c.media {
	case mediaEmbeds:
		count = len(current.Embeds)
	case mediaAttachments:
		count = len(current.Attachments)
	case mediaEither:
		count = len(current.Embeds) + len(current.Attachments)
	}
	return count >= c.minCount, nil
}

type messageExternalMedia struct {
	ignoreLinks       bool
	ignoreEmbeds      bool
	ignoreAttachments bool
}

func newMessageExternalMedia(opts Options) (Condition, error) {
	ignoreLinks, err := opts.Bool("ignore_links", false)
	if err != nil {
		return nil, err
	}
	ignoreEmbeds, err := opts.Bool("ignore_embeds", false)
	if err != nil {
		return nil, err
	}
	ignoreAttachments, err := opts.Bool("ignore_attachments", false)
	if err != nil {
		return nil, err
	}
	return &messageExternalMedia{
		ignoreLinks:       ignoreLinks,
		ignoreEmbeds:      ignoreEmbeds,
		ignoreAttachments: ignoreAttachments,
	}, nil
}

func (c *messageExternalMedia) Kind() string { return "MESSAGE_CONTAINS_EXTERNAL_MEDIA" }

func (c *messageExternalMedia) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	msg := t.Message()
	if msg == nil {
		return false, nil
	}
	if !c.ignoreLinks {
		if strings.Contains(msg.Content, "http://") || strings.Contains(msg.Content, "https://") {
			return true, nil
		}
	}
	if !c.ignoreEmbeds && len(msg.Embeds) > 0 {
		return true, nil
	}
	if !c.ignoreAttachments && len(msg.Attachments) > 0 {
		return true, nil
	}
	return false, nil
}
