// Package safety implements the command gate: every model-generated
// command is assessed against an ordered policy table and, unless it is
// provably read-only, held for approval before it reaches a shell.
package safety

import (
	"fmt"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// denylistNeedles are substrings that mark a command as touching
// credentials or protected system data. Matching is case-insensitive.
var denylistNeedles = []string{
	// protected paths
	"/etc/passwd",
	"/etc/shadow",
	"/etc/sudoers",
	"/etc/ssl",
	".ssh",
	".gnupg",
	"id_rsa",
	"authorized_keys",
	// credential keywords
	"password",
	"passwd",
	"secret",
	"token",
	"apikey",
	"api_key",
	"credential",
	// key material extensions
	".pem",
	".key",
	".crt",
	".p12",
	".pfx",
	".der",
}

// injectionMetachars are the shell constructs that can smuggle a second
// command into a generated one. No parsing is attempted; presence alone
// demotes the command.
const injectionMetachars = "$`;|&()<>{}"

// safeLeaders are read-only commands allowed to run without confirmation
// when they appear as the first token.
var safeLeaders = []string{
	"ls", "pwd", "cat", "head", "tail", "wc", "grep", "find", "file",
	"stat", "which", "whereis", "whoami", "id", "uname", "hostname",
	"date", "uptime", "df", "du", "free", "ps", "echo",
}

// Policy is the ordered rule table. Rules are evaluated top to bottom and
// the first match decides the verdict, so a denylisted path wins over an
// allow-listed leading command.
type Policy struct {
	maxLength int
	safe      map[string]struct{}
}

// NewPolicy builds the policy with the configured length bound and any
// user-extended safe commands.
func NewPolicy(maxLength int, extraSafe []string) *Policy {
	if maxLength <= 0 {
		maxLength = domain.DefaultMaxCommandLength
	}

	safe := make(map[string]struct{}, len(safeLeaders)+len(extraSafe))
	for _, name := range safeLeaders {
		safe[name] = struct{}{}
	}
	for _, name := range extraSafe {
		name = strings.TrimSpace(name)
		if name != "" {
			safe[strings.ToLower(name)] = struct{}{}
		}
	}

	return &Policy{maxLength: maxLength, safe: safe}
}

type policyRule struct {
	name    string
	verdict domain.Verdict
	match   func(command string) []string
}

func (p *Policy) rules() []policyRule {
	return []policyRule{
		{
			name:    "max-length",
			verdict: domain.VerdictBlocked,
			match: func(command string) []string {
				if len(command) <= p.maxLength {
					return nil
				}
				return []string{fmt.Sprintf("command length %d exceeds the %d character limit", len(command), p.maxLength)}
			},
		},
		{
			name:    "denylist",
			verdict: domain.VerdictNeedsConfirmation,
			match: func(command string) []string {
				lowered := strings.ToLower(command)
				var reasons []string
				for _, needle := range denylistNeedles {
					if strings.Contains(lowered, needle) {
						reasons = append(reasons, fmt.Sprintf("references protected data (%q)", needle))
					}
				}
				return reasons
			},
		},
		{
			name:    "metacharacter",
			verdict: domain.VerdictNeedsConfirmation,
			match: func(command string) []string {
				var reasons []string
				for _, ch := range injectionMetachars {
					if strings.ContainsRune(command, ch) {
						reasons = append(reasons, fmt.Sprintf("contains shell metacharacter %q", string(ch)))
					}
				}
				return reasons
			},
		},
		{
			name:    "allow-list",
			verdict: domain.VerdictSafe,
			match: func(command string) []string {
				fields := strings.Fields(command)
				if len(fields) == 0 {
					return nil
				}
				if _, ok := p.safe[strings.ToLower(fields[0])]; !ok {
					return nil
				}
				return []string{fmt.Sprintf("%s is on the read-only allow-list", fields[0])}
			},
		},
	}
}

// Assess runs the command through the rule table.
func (p *Policy) Assess(command string) domain.Assessment {
	trimmed := strings.TrimSpace(command)

	for _, rule := range p.rules() {
		if reasons := rule.match(trimmed); len(reasons) > 0 {
			return domain.Assessment{Verdict: rule.verdict, Reasons: reasons, Rule: rule.name}
		}
	}

	return domain.Assessment{
		Verdict: domain.VerdictNeedsConfirmation,
		Reasons: []string{"not on the read-only allow-list"},
		Rule:    "default",
	}
}
