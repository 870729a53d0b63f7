package shell

// ZshPlugin is the zsh plugin source. It starts a labs session for the shell
// when none is set, records each command from a preexec hook, tees the
// command's stdout and stderr into the session's capture directory, and hands
// the captured streams plus the exit status to labs from a precmd hook.
// Set LABS_NO_CAPTURE=1 to record commands and statuses without output.
const ZshPlugin = `# labs shell plugin (auto-generated; do not edit manually)
# Source this file from your ~/.zshrc:
#   source ~/.config/labs/labs.plugin.zsh

_labs_bin="${LABS_BIN:-labs}"

if [[ -z "$LABS_SESSION_DIR" ]]; then
  eval "$("$_labs_bin" session new --export 2>/dev/null)"
fi

_labs_capture="$LABS_SESSION_DIR/.capture"
_labs_index=""

_labs_preexec() {
  [[ -n "$LABS_SESSION_DIR" ]] || return
  local cmd="$1"
  # Browsing history should not add to it.
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

autoload -Uz add-zsh-hook
add-zsh-hook preexec _labs_preexec
add-zsh-hook precmd _labs_precmd
`
