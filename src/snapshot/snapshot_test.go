package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/robfig/cron"

	"SocialInsights/src/config"
	"SocialInsights/src/datapush"
	"SocialInsights/src/datasource/file"
	"SocialInsights/src/processor"
	"SocialInsights/src/storage"
)

const csvData = `Town,Percentage of Women,Percentage of Men,Average family size - 1 to 3 members,Average family size - 4 to 6 members,Average family size - 7 or more members,Percentage of Eldelry - 65 or more years
Aabadiyeh,51,49,3,2,1,12
Aachqout,49,51,4,3,0,15
Fourzol,50,50,0,0,0,9
`

func csvLoader() processor.Loader {
	return processor.LoaderFunc(func(context.Context) (dataframe.DataFrame, error) {
		return file.ReadCSV(strings.NewReader(csvData), "utf-8")
	})
}

func TestRenderWritesFiles(t *testing.T) {
	r := &Renderer{Loader: csvLoader(), DC: config.DefaultDataConfig()}
	dir := filepath.Join(t.TempDir(), "out")

	files, err := r.Render(context.Background(), dir, "Town C", true)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{GenderFile, FamilyFile, PieFile, TableFile}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Errorf("files[%d] = %s, want %s", i, files[i], name)
		}
		st, err := os.Stat(files[i])
		if err != nil || st.Size() == 0 {
			t.Errorf("%s missing or empty: %v", name, err)
		}
	}

	if _, err := r.Render(context.Background(), dir, "Town Z", false); err == nil {
		t.Fatal("expected error for unknown sample town")
	}
}

func TestJobPushesSnapshot(t *testing.T) {
	var pushed int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			atomic.AddInt32(&pushed, int32(len(r.MultipartForm.File["media"])))
		}
		fmt.Fprint(w, `{"errcode":0}`)
	}))
	defer ts.Close()

	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "job.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	job := &Job{
		Renderer: &Renderer{Loader: csvLoader(), DC: config.DefaultDataConfig()},
		Dir:      t.TempDir(),
		Logger:   logger,
		Pusher:   datapush.NewPusher(ts.URL),
		Timeout:  time.Minute,
	}
	job.Run()

	if got := atomic.LoadInt32(&pushed); got != 4 {
		t.Fatalf("pushed %d files, want 4", got)
	}
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	if err := Schedule(c, 0, func() {}); err == nil {
		t.Fatal("expected error for zero interval")
	}

	fired := make(chan struct{}, 1)
	err := Schedule(c, time.Second, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	c.Start()
	defer c.Stop()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire")
	}
}
