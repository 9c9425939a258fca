package complete

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ryanfowler/curlc/internal/core"
)

const program = "curlc"

// Shell represents a supported shell for completions.
type Shell interface {
	Name() string
	Register() string
	Complete([]core.KeyVal) string
}

var shells = map[string]Shell{
	"bash": Bash{},
	"fish": Fish{},
	"zsh":  Zsh{},
}

// GetShell returns the shell matching the provided name, or nil.
func GetShell(name string) Shell {
	return shells[name]
}

// Names returns the supported shell names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(shells))
}

// Each script passes the words before the cursor, then the word under the
// cursor, to "curlc --complete=SHELL --". Completion continues past the curl
// word so that curl's own flags are offered inside the command.

const bashScript = `_%[1]s_complete() {
  local IFS=$'\n'
  COMPREPLY=($(%[1]s --complete=bash -- "${COMP_WORDS[@]:0:COMP_CWORD}" "${COMP_WORDS[COMP_CWORD]}"))
}
complete -o nosort -o nospace -F _%[1]s_complete %[1]s`

const fishScript = `complete --keep-order --exclusive --command %[1]s --arguments "(%[1]s --complete=fish -- (commandline --current-process --tokens-expanded --cut-at-cursor) (commandline --cut-at-cursor --current-token))"`

const zshScript = `_%[1]s_complete() {
  local -a completions
  completions=("${(@f)$(%[1]s --complete=zsh -- "${words[@]:0:$CURRENT-1}" "${words[$CURRENT]}")}")
  [[ -n $completions ]] && _describe -t %[1]s '%[1]s' completions
}
compdef _%[1]s_complete %[1]s`

type Bash struct{}

func (Bash) Name() string     { return "bash" }
func (Bash) Register() string { return fmt.Sprintf(bashScript, program) }

// Complete writes one candidate per line. Directories and "--flag=" keys get
// no trailing space so the word can be continued.
func (Bash) Complete(vals []core.KeyVal) string {
	var sb strings.Builder
	for _, kv := range vals {
		sb.WriteString(kv.Key)
		if !strings.HasSuffix(kv.Key, "/") && !strings.HasSuffix(kv.Key, "=") {
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type Fish struct{}

func (Fish) Name() string     { return "fish" }
func (Fish) Register() string { return fmt.Sprintf(fishScript, program) }

// Complete writes "key<TAB>description" lines.
func (Fish) Complete(vals []core.KeyVal) string {
	var sb strings.Builder
	for _, kv := range vals {
		sb.WriteString(kv.Key)
		if kv.Val != "" {
			sb.WriteByte('\t')
			sb.WriteString(oneLine.Replace(kv.Val))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// oneLine keeps a description on a single output line.
var oneLine = strings.NewReplacer("\t", " ", "\n", " ")

type Zsh struct{}

func (Zsh) Name() string     { return "zsh" }
func (Zsh) Register() string { return fmt.Sprintf(zshScript, program) }

// Complete writes "key:description" lines for _describe, which splits on the
// first unescaped colon.
func (Zsh) Complete(vals []core.KeyVal) string {
	lines := make([]string, 0, len(vals))
	for _, kv := range vals {
		line := zshKey.Replace(kv.Key)
		if kv.Val != "" {
			line += ":" + oneLine.Replace(kv.Val)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

var zshKey = strings.NewReplacer(`\`, `\\`, ":", `\:`)
