package shell

// BashPlugin is the bash plugin source (bash 4.1+). A DEBUG trap armed by
// the last PROMPT_COMMAND entry plays the preexec role, so nothing is recorded
// before the first prompt. The first PROMPT_COMMAND entry plays precmd and
// captures $? before anything else can clobber it.
const BashPlugin = `# labs shell plugin (auto-generated; do not edit manually)
# Source this file from your ~/.bashrc:
#   source ~/.config/labs/labs.plugin.bash

_labs_bin="${LABS_BIN:-labs}"

if [[ -z "$LABS_SESSION_DIR" ]]; then
  eval "$("$_labs_bin" session new --export 2>/dev/null)"
fi

_labs_capture="$LABS_SESSION_DIR/.capture"
_labs_index=""
_labs_armed=""
_labs_histnum=""

_labs_preexec() {
  [[ -n "$_labs_armed" ]] || return
  _labs_armed=""
  # An empty line runs PROMPT_COMMAND with the trap still armed.
  [[ "$BASH_COMMAND" == _labs_precmd* ]] && return
  [[ -n "$COMP_LINE" ]] && return
  [[ -n "$LABS_SESSION_DIR" ]] || return
  local cmd="$BASH_COMMAND" line
  line="$(HISTTIMEFORMAT= builtin history 1)"
  # HISTCONTROL and HISTIGNORE can keep the line out of history; then
  # history 1 still shows the entry from before the last prompt.
  if [[ "$line" =~ ^[[:space:]]*([0-9]+)[*]?[[:space:]]+(.*)$ ]] &&
    [[ "${BASH_REMATCH[1]}" != "$_labs_histnum" ]]; then
    cmd="${BASH_REMATCH[2]}"
  fi
  [[ "$cmd" =~ ^[[:space:]]*(.*/)?labs[[:space:]]+(hist|prev|show|watch)([[:space:]]|$) ]] && return
  _labs_index="$("$_labs_bin" record-pre -- "$cmd" 2>/dev/null)"
  [[ -n "$_labs_index" ]] || return
  [[ -n "$LABS_NO_CAPTURE" ]] && return
  mkdir -p "$_labs_capture" 2>/dev/null || return
  : >| "$_labs_capture/stdout"
  : >| "$_labs_capture/stderr"
  : >| "$_labs_capture/full"
  exec {_labs_out}>&1 {_labs_err}>&2
  exec > >(tee -a "$_labs_capture/stdout" "$_labs_capture/full" >&$_labs_out) \
      2> >(tee -a "$_labs_capture/stderr" "$_labs_capture/full" >&$_labs_err)
}

_labs_precmd() {
  local ret=$?
  [[ -n "$_labs_index" ]] || return $ret
  local capture_args=()
  if [[ -n "$_labs_out" ]]; then
    exec 1>&$_labs_out 2>&$_labs_err
    exec {_labs_out}>&- {_labs_err}>&-
    unset _labs_out _labs_err
    capture_args=(--capture-dir "$_labs_capture")
  fi
  "$_labs_bin" record-post --index "$_labs_index" --status "$ret" "${capture_args[@]}" 2>/dev/null
  _labs_index=""
  return $ret
}

_labs_arm() {
  local line
  line="$(HISTTIMEFORMAT= builtin history 1)"
  _labs_histnum=""
  [[ "$line" =~ ^[[:space:]]*([0-9]+) ]] && _labs_histnum="${BASH_REMATCH[1]}"
  _labs_armed=1
}

trap '_labs_preexec' DEBUG
PROMPT_COMMAND="_labs_precmd${PROMPT_COMMAND:+; $PROMPT_COMMAND}; _labs_arm"
`
