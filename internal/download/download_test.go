package download

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-preview/internal/types"
)

func TestTrigger_SendsOncePerLifecycle(t *testing.T) {
	trig := NewTrigger()
	var buf bytes.Buffer

	sent, err := trig.Send(&buf, []byte("document"))
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "document", buf.String())

	// A re-render inside the same workflow must not download again.
	sent, err = trig.Send(&buf, []byte("document"))
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, "document", buf.String(), "blob must be written exactly once")
	assert.True(t, trig.Sent())
}

func TestTrigger_ResetStartsNewLifecycle(t *testing.T) {
	trig := NewTrigger()
	var buf bytes.Buffer

	_, err := trig.Send(&buf, []byte("a"))
	require.NoError(t, err)

	trig.Reset()
	assert.False(t, trig.Sent())

	sent, err := trig.Send(&buf, []byte("b"))
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "ab", buf.String())
}

func TestTrigger_ConcurrentInvocationsSingleWrite(t *testing.T) {
	trig := NewTrigger()
	var mu sync.Mutex
	var writes int

	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		writes++
		mu.Unlock()
		return len(p), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = trig.Send(w, []byte("doc"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, writes)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestFilename_FromFullName(t *testing.T) {
	content := &types.ResumeContent{
		Personal: types.PersonalInfo{FullName: "Ada Lovelace"},
	}
	assert.Equal(t, "Resume_Ada_Lovelace.pdf", Filename(content))
}

func TestFilename_CollapsesWhitespace(t *testing.T) {
	content := &types.ResumeContent{
		Personal: types.PersonalInfo{FullName: "  Ada   King   Lovelace "},
	}
	assert.Equal(t, "Resume_Ada_King_Lovelace.pdf", Filename(content))
}

func TestFilename_DropsUnsafeCharacters(t *testing.T) {
	content := &types.ResumeContent{
		Personal: types.PersonalInfo{FullName: `Ada "The/Countess" Lovelace`},
	}
	assert.Equal(t, "Resume_Ada_TheCountess_Lovelace.pdf", Filename(content))
}

func TestFilename_FallsBackToTitle(t *testing.T) {
	content := &types.ResumeContent{Title: "Backend Resume"}
	assert.Equal(t, "Resume_Backend_Resume.pdf", Filename(content))
}

func TestFilename_Default(t *testing.T) {
	assert.Equal(t, DefaultFilename, Filename(nil))
	assert.Equal(t, DefaultFilename, Filename(&types.ResumeContent{}))
	assert.Equal(t, DefaultFilename, Filename(&types.ResumeContent{
		Personal: types.PersonalInfo{FullName: "///"},
	}))
}
