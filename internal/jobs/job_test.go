package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testPool() *Pool {
	return NewPool(
		&Job{ID: "1", Title: "Go Developer", Company: "Acme"},
		&Job{ID: "2", Title: "Python Developer", Company: "Globex"},
		&Job{ID: "3", Title: "Data Engineer", Company: "Acme"},
		&Job{ID: "4", Title: "Chef", Company: ""},
	)
}

func TestPoolExcludeKeepsOrder(t *testing.T) {
	pool := testPool()

	excluded := pool.Exclude(JobIDField, []string{"3", "1", "missing"})
	if !reflect.DeepEqual(excluded, []string{"1", "3"}) {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if !reflect.DeepEqual(pool.IDs(), []string{"2", "4"}) {
		t.Fatalf("unexpected remaining ids: %v", pool.IDs())
	}

	pool = testPool()
	pool.Exclude(JobCompanyField, []string{"Acme"})
	if !reflect.DeepEqual(pool.IDs(), []string{"2", "4"}) {
		t.Fatalf("unexpected remaining ids after company exclusion: %v", pool.IDs())
	}

	if got := pool.Exclude(JobIDField, nil); got != nil {
		t.Fatalf("expected nothing excluded, got %v", got)
	}
}

func TestPoolCloneIsIndependent(t *testing.T) {
	pool := testPool()
	clone := pool.Clone()

	clone.Exclude(JobIDField, []string{"1"})
	if pool.Len() != 4 || clone.Len() != 3 {
		t.Fatalf("expected original untouched, got %d and %d", pool.Len(), clone.Len())
	}

	var nilPool *Pool
	if nilPool.Len() != 0 || nilPool.Clone().Len() != 0 {
		t.Fatalf("expected nil pool to behave as empty")
	}
}

func TestPoolKeep(t *testing.T) {
	pool := testPool()

	dropped := pool.Keep(func(j *Job) bool { return j.Company != "" })
	if !reflect.DeepEqual(dropped, []string{"4"}) {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}

	if !reflect.DeepEqual(pool.IDs(), []string{"1", "2", "3"}) {
		t.Fatalf("unexpected ids: %v", pool.IDs())
	}
}

func TestPoolGet(t *testing.T) {
	pool := testPool()

	job, err := pool.Get("2")
	if err != nil || job.Title != "Python Developer" {
		t.Fatalf("unexpected result: %v, %v", job, err)
	}

	if _, err := pool.Get("42"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestReportByCompany(t *testing.T) {
	report := testPool().ReportByCompany()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme jobs, got %d", len(report["Acme"]))
	}
	if report["(unknown company)"][0]["title"] != "Chef" {
		t.Fatalf("expected chef under unknown company, got %v", report["(unknown company)"])
	}
}

func TestExcludedJobsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	excluded, err := GetExcludedJobsFromFile(path)
	if err != nil {
		t.Fatalf("missing exclude file must be empty, got %v", err)
	}
	if len(excluded.IDs()) != 0 {
		t.Fatalf("expected no ids, got %v", excluded.IDs())
	}

	excluded.Append(testPool().ToExcluded())
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	again, err := GetExcludedJobsFromFile(path)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}
	if !reflect.DeepEqual(again.IDs(), []string{"1", "2", "3", "4"}) {
		t.Fatalf("unexpected ids: %v", again.IDs())
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if got, err := GetExcludedJobsFromFile(empty); err != nil || len(got.Items) != 0 {
		t.Fatalf("expected empty list, got %v, %v", got, err)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	name, err := testPool().DumpToTmpFile()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	defer os.Remove(name)

	if _, err := os.Stat(name); err != nil {
		t.Fatalf("expected dump file: %v", err)
	}
}
