// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	got := Summarize([]float64{3, 1, 2})
	want := Summary{N: 3, Min: 1, Median: 2, Max: 3, Mean: 2, StdDev: 1}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}

	got = Summarize([]float64{7})
	want = Summary{N: 1, Min: 7, Median: 7, Max: 7, Mean: 7}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("single (-want +got):\n%s", diff)
	}

	got = Summarize(nil)
	if got.N != 0 || !math.IsNaN(got.Mean) || !math.IsNaN(got.Min) {
		t.Errorf("empty: got %+v, want N=0 and NaN statistics", got)
	}
}

func TestSummarizeColumn(t *testing.T) {
	tab := load(t,
		"amd", `{"config":{"batch_size":1},"runtime":0.5,"runtimes":[1,2,3]},
			{"config":{"batch_size":2},"runtime":0.25,"runtimes":[5]}`,
		"intel", `{"config":{"batch_size":1},"runtime":1,"runtimes":null}`,
	)

	got, err := SummarizeColumn(tab, "runtimes", ColID)
	if err != nil {
		t.Fatal(err)
	}
	want := []Summary{
		{Group: []string{"amd"}, N: 4, Min: 1, Median: 2.5, Max: 5, Mean: 2.75, StdDev: math.Sqrt(2.9166666666666665)},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("runtimes by id (-want +got):\n%s", diff)
	}

	got, err = SummarizeColumn(tab, ColRuntime, ColBatchSize)
	if err != nil {
		t.Fatal(err)
	}
	want = []Summary{
		{Group: []string{"1"}, N: 2, Min: 0.5, Median: 0.75, Max: 1, Mean: 0.75, StdDev: math.Sqrt(0.125)},
		{Group: []string{"2"}, N: 1, Min: 0.25, Median: 0.25, Max: 0.25, Mean: 0.25},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("runtime by batch size (-want +got):\n%s", diff)
	}

	if _, err := SummarizeColumn(tab, "latency"); err == nil {
		t.Errorf("missing column: got nil error")
	}
}

func TestSummarizeColumnGroupedBySelf(t *testing.T) {
	tab := load(t, "amd", `{"runtime":0.5},{"runtime":0.25}`)
	for _, by := range [][]string{{ColRuntime}, {ColID, ColRuntime}} {
		got, err := SummarizeColumn(tab, ColRuntime, by...)
		if err == nil {
			t.Errorf("SummarizeColumn(runtime, %v) = %v, want error", by, got)
		}
	}
}
