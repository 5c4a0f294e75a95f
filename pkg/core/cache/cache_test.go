package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCache_SetGet(t *testing.T) {
	c := New(Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v; want 1, 1, 50", hits, misses, rate)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.SetWithTTL("short", "x", time.Millisecond)
	c.SetWithTTL("forever", "y", 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry was returned")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("entry without TTL expired")
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := New(Config{MaxItems: 2, TTL: time.Minute})
	defer c.Close()

	c.Set("first", 1)
	time.Sleep(time.Millisecond)
	c.Set("second", 2)
	time.Sleep(time.Millisecond)
	c.Set("third", 3)

	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry survived eviction")
	}

	// overwriting an existing key never evicts
	c.Set("third", 4)
	if _, ok := c.Get("second"); !ok {
		t.Error("overwrite evicted another entry")
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New(DefaultConfig())
	defer c.Close()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return "v", nil
	}
	for i := 0; i < 3; i++ {
		if v, err := c.GetOrSet("k", fn); err != nil || v != "v" {
			t.Fatalf("GetOrSet() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	_, err := c.GetOrSet("bad", func() (interface{}, error) { return nil, fmt.Errorf("boom") })
	if err == nil {
		t.Fatal("GetOrSet() should return the error of fn")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computation was cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New(Config{MaxItems: 50, TTL: time.Minute})
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n*100+j)%70)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Size() > 50 {
		t.Errorf("Size() = %d exceeds MaxItems", c.Size())
	}
	c.Close()
	c.Close()
}

func TestResultCache(t *testing.T) {
	rc := NewResultCache(10, time.Minute)
	defer rc.Close()

	res := &Balanced{
		Equation:     "H2 + O2 -> H2O",
		Balanced:     "2H2 + O2 -> 2H2O",
		Coefficients: []int{2, 1, 2},
		Elements:     []string{"H", "O"},
	}
	rc.Set("H2 + O2 -> H2O", res)
	res.Coefficients[0] = 99

	got, ok := rc.Get("  H2 +\tO2  ->   H2O ")
	if !ok {
		t.Fatal("Get() missed a whitespace variant")
	}
	if diff := cmp.Diff([]int{2, 1, 2}, got.Coefficients); diff != "" {
		t.Errorf("Coefficients mismatch (-want +got):\n%s", diff)
	}

	got.Elements[0] = "X"
	again, _ := rc.Get("H2 + O2 -> H2O")
	if again.Elements[0] != "H" {
		t.Error("Get() returned shared state")
	}

	if _, ok := rc.Get("H2+O2->H2O"); ok {
		t.Error("removing whitespace must produce a different key")
	}
	if rc.Size() != 1 {
		t.Errorf("Size() = %d, want 1", rc.Size())
	}
	rc.Clear()
	if rc.Size() != 0 {
		t.Error("Clear() left entries")
	}
}
