// Package testsupport provides fake recognition engine binaries for tests.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// FakeEngine writes a shell script that mimics whisper-cli: it inspects the
// output-format flag and the -of base path, writes content to the expected
// output file, and exits cleanly. It returns the script path.
func FakeEngine(t *testing.T, content string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
out=""
ext="vtt"
prev=""
for arg in "$@"; do
  if [ "$prev" = "-of" ]; then
    out="$arg"
  fi
  case "$arg" in
    -ovtt) ext="vtt" ;;
    -osrt) ext="srt" ;;
    -otxt) ext="txt" ;;
    -oj) ext="json" ;;
    -olrc) ext="lrc" ;;
  esac
  prev="$arg"
done
if [ -z "$out" ]; then
  echo "missing -of argument" >&2
  exit 2
fi
cat > "$out.$ext" <<'FAKE_ENGINE_EOF'
%s
FAKE_ENGINE_EOF
`, content)
	return writeScript(t, "fake-whisper-cli", script)
}

// FailingEngine writes a shell script that prints the given diagnostic and
// exits non-zero, mimicking an engine failure.
func FailingEngine(t *testing.T, diagnostic string) string {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit 3\n", diagnostic)
	return writeScript(t, "failing-whisper-cli", script)
}

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
