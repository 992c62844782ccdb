/*
	Basic Script that generates random data to help create lots of value files for testing.
*/

package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/mkarman/go-stash/stash"
	"github.com/mkarman/go-stash/value"
)

const (
	// Fixed universe
	totalKeys = 50

	// Per-cycle behavior
	keysPerCycleWrite  = 10
	keysPerCycleDelete = 3
	pushesPerCycle     = 5
	cycles             = 100

	progressEvery = 10
)

func main() {
	dir := flag.String("dir", "./stash-data", "Base directory for the generated store")
	flag.Parse()

	start := time.Now()
	fmt.Println("Starting stash churn-heavy data generator")

	store, err := stash.Open(stash.WithBaseDir(*dir))
	if err != nil {
		fmt.Println("open error:", err)
		return
	}

	keys := makeKeys(totalKeys)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for cycle := 1; cycle <= cycles; cycle++ {

		// ---- WRITE / OVERWRITE PHASE ----
		for i := 0; i < keysPerCycleWrite; i++ {
			key := keys[rng.Intn(len(keys))]

			if _, err := store.Set(key, randomValue(rng), ""); err != nil {
				fmt.Println("SET error:", err)
				return
			}
		}

		// ---- PUSH PHASE (grows list-valued keys) ----
		for i := 0; i < pushesPerCycle; i++ {
			key := fmt.Sprintf("list-%02d", rng.Intn(5))

			if _, err := store.Push(key, value.Int(int64(rng.Intn(1000))), rng.Intn(2) == 0); err != nil {
				fmt.Println("PUSH error:", err)
				return
			}
		}

		// ---- DELETE PHASE (orphans value files on purpose) ----
		for i := 0; i < keysPerCycleDelete; i++ {
			key := keys[rng.Intn(len(keys))]

			if err := store.Del(key); err != nil {
				fmt.Println("DEL error:", err)
				return
			}
		}

		if cycle%progressEvery == 0 {
			fmt.Printf("completed %d cycles\n", cycle)
		}
	}

	fmt.Printf("Load finished in %v\n", time.Since(start))
}

func makeKeys(n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("key-%03d", i)
	}
	return keys
}

func randomValue(rng *rand.Rand) value.Value {
	switch rng.Intn(5) {
	case 0:
		return value.String(fmt.Sprintf("value-%03d", rng.Intn(1000)))
	case 1:
		return value.Int(rng.Int63n(1_000_000))
	case 2:
		return value.Float(rng.Float64())
	case 3:
		return value.Record(map[string]value.Value{
			"id":   value.Int(rng.Int63n(1000)),
			"name": value.String(fmt.Sprintf("item-%d", rng.Intn(100))),
		})
	default:
		buf := make([]byte, 16+rng.Intn(48))
		rng.Read(buf)
		return value.Binary(buf)
	}
}
