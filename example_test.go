// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab_test

import (
	"fmt"
	"log"
	"testing/fstest"

	"github.com/memprefetch/benchtab"
	"github.com/memprefetch/benchtab/benchjson"
)

// Load a directory of per-machine result files and print it.
func Example() {
	fsys := fstest.MapFS{
		"lfb_batched/amd.json": {Data: []byte(`{"results":[
			{"config":{"batch_size":1},"runtime":0.5},
			{"config":{"batch_size":2},"runtime":0.75}]}`)},
		"lfb_batched/intel.json": {Data: []byte(`{"results":[
			{"config":{"batch_size":1},"runtime":0.4}]}`)},
	}

	tab, err := benchtab.Load(fsys, "lfb_batched", benchtab.Options{Layout: benchjson.Flat})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(tab.Columns())
	for row := 0; row < tab.Len(); row++ {
		for i := range tab.Columns() {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(benchtab.FormatValue(tab.ColumnAt(i)[row]))
		}
		fmt.Println()
	}
	// Output:
	// [config.batch_size runtime id]
	// 1 0.5 amd
	// 2 0.75 amd
	// 1 0.4 intel
}
