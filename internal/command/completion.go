package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for lmdo
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_lmdo()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "deploy destroy invoke list permission init completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local aws="--profile --region -r --tldr"

    case "$cmd" in
        deploy)
            local opts="$aws --function -F"
            ;;
        destroy)
            local opts="$aws --function -F"
            ;;
        invoke)
            local opts="$aws --async --payload -P --payload-file"
            ;;
        list)
            local opts="$aws --all --attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t"
            ;;
        permission)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "add remove" -- "$cur") )
                return 0
            fi
            case "${COMP_WORDS[2]}" in
                add)
                    local opts="$aws --action --function -F --principal --principal-id"
                    ;;
                remove)
                    local opts="$aws --function -F --principal-id"
                    ;;
                *)
                    local opts=""
                    ;;
            esac
            ;;
        init)
            local opts="--tldr"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$aws"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--payload-file" ]]; then
        COMPREPLY=( $(compgen -o filenames -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _lmdo lmdo
`

const zshCompletionScript = `#compdef lmdo

_lmdo() {
  local -a cmds
  cmds=(
    'deploy:package and deploy the configured functions'
    'destroy:delete the deployed functions and their managed roles'
    'invoke:invoke a deployed function'
    'list:list deployed functions'
    'permission:manage function invoke permissions'
    'init:scaffold a new lmdo project'
    'completion:generate shell completion script'
  )

  local -a aws
  aws=(
  '--profile[AWS shared config profile]:profile'
  '(-r --region)'{-r,--region}'[AWS region]:region'
  '--tldr[show tldr page]'
  )

  local -a listing
  listing=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[render timestamps in the local timezone]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'lmdo commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    deploy)
      _arguments -C \
        $aws \
        '(-F --function)'{-F,--function}'[deploy only the named function]:function'
      ;;
    destroy)
      _arguments -C \
        $aws \
        '(-F --function)'{-F,--function}'[destroy only the named function]:function'
      ;;
    invoke)
      _arguments -C \
        $aws \
        '--async[queue the invocation]' \
        '(-P --payload)'{-P,--payload}'[JSON request payload]:payload' \
        '--payload-file[file containing the payload]:file:_files' \
        '::FUNCTION:'
      ;;
    list)
      _arguments -C \
        $aws \
        $listing \
        '--all[list every function in the account]'
      ;;
    permission)
      if (( CURRENT == 3 )); then
        local -a subcmds
        subcmds=(
          'add:grant a principal permission to invoke a function'
          'remove:revoke a previously granted permission'
        )
        _describe -t commands 'permission commands' subcmds
        return
      fi
      case $words[3] in
        add)
          _arguments -C \
            $aws \
            '--action[Lambda action to grant]:action' \
            '(-F --function)'{-F,--function}'[configured function]:function' \
            '--principal[service or account receiving the grant]:principal' \
            '--principal-id[caller-chosen id]:id'
          ;;
        remove)
          _arguments -C \
            $aws \
            '(-F --function)'{-F,--function}'[configured function]:function' \
            '--principal-id[id the grant was added with]:id'
          ;;
      esac
      ;;
    init)
      _arguments -C \
        '--tldr[show tldr page]' \
        '::NAME:'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $aws
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _lmdo lmdo
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: lmdo completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "lmdo completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
