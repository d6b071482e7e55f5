package recorder_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/doctest/pkg/recorder"
)

func TestFileRecorder_WritesReport(t *testing.T) {
	dir := t.TempDir()
	rec := recorder.NewFileRecorder(dir, "UserApiTest")

	rec.Introduction("User endpoints")
	rec.Section("Create user")
	rec.Request("POST", "/users", `{"name":"ada"}`, map[string]string{"Content-Type": "application/json"}, nil)
	rec.Response(201, `{"id":7}`, nil, nil)
	rec.Assert(201, 201)
	rec.Section("Read it back")
	rec.SayValues("Stored user", `{"id":7}`, "ada")

	result, err := rec.Flush(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, filepath.Join(dir, "UserApiTest.html"), result.Path)
	assert.Equal(t, []string{"section1", "section2"}, result.Anchors)
	assert.Zero(t, rec.Len())

	page, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Create user</h2>")
	assert.Contains(t, string(page), "User endpoints")

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="UserApiTest.html"`)
}

func TestFileRecorder_FlushWithoutItems(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rec := recorder.NewFileRecorder(dir, "Empty")

	result, err := rec.Flush(context.Background())

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoDirExists(t, dir)
}

func TestFileRecorder_SharedRendererAcrossTests(t *testing.T) {
	dir := t.TempDir()
	renderer := recorder.NewFileRenderer(dir)

	var wg sync.WaitGroup
	for _, name := range []string{"OrdersTest", "UsersTest"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rec := recorder.New(renderer, name)
			rec.Say("runs " + name)
			_, err := rec.Flush(context.Background())
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	assert.FileExists(t, filepath.Join(dir, "OrdersTest.html"))
	assert.FileExists(t, filepath.Join(dir, "UsersTest.html"))
}

func TestFileRecorder_DumpForLaterRendering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captures", "users.yaml")
	rec := recorder.NewFileRecorder(t.TempDir(), "UserApiTest")
	rec.Section("Create user")
	rec.Request("POST", "/users", `{"name":"ada"}`, nil, nil)

	require.NoError(t, rec.Dump(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name: UserApiTest\n"))
	assert.Contains(t, string(data), "type: request")
	assert.Equal(t, 2, rec.Len())
}

func ExampleRecorder() {
	dir, err := os.MkdirTemp("", "doctest")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	rec := recorder.NewFileRecorder(dir, "UserApiTest")
	rec.Section("Create user")
	rec.Request("POST", "/users", `{"name":"ada"}`, nil, nil)
	rec.Response(201, `{"id":7}`, nil, nil)
	rec.Assert(201, 201)

	result, err := rec.Flush(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println(filepath.Base(result.Path), result.Anchors)
	// Output: UserApiTest.html [section1]
}
