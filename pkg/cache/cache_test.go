package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/gomega"
)

var ctx = context.Background()

func TestMemoryStore_SetGet(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryStore(time.Minute, time.Minute)
	store.Set(ctx, "greeting", []byte("hello"), time.Minute)

	data, found := store.Get(ctx, "greeting")

	Expect(found).To(BeTrue())
	Expect(data).To(Equal([]byte("hello")))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryStore(time.Minute, time.Minute)

	data, found := store.Get(ctx, "nope")

	Expect(found).To(BeFalse())
	Expect(data).To(BeNil())
}

func TestMemoryStore_Delete(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryStore(time.Minute, time.Minute)
	store.Set(ctx, "gone", []byte("soon"), time.Minute)
	store.Delete(ctx, "gone")

	_, found := store.Get(ctx, "gone")

	Expect(found).To(BeFalse())
}

func TestMemoryStore_FlushAndLen(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryStore(time.Minute, time.Minute)
	store.Set(ctx, "a", []byte("1"), time.Minute)
	store.Set(ctx, "b", []byte("2"), time.Minute)

	Expect(store.Len(ctx)).To(Equal(2))

	store.Flush(ctx)

	Expect(store.Len(ctx)).To(Equal(0))
}

func TestMemoryStore_Expiry(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryStore(time.Minute, time.Minute)
	store.Set(ctx, "transient", []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, found := store.Get(ctx, "transient")

	Expect(found).To(BeFalse())
}

func TestRedisStore_SetGet(t *testing.T) {
	RegisterTestingT(t)

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, mr.Addr())
	Expect(err).To(BeNil())
	defer store.Close()

	store.Set(ctx, "greeting", []byte("hello"), time.Minute)

	data, found := store.Get(ctx, "greeting")

	Expect(found).To(BeTrue())
	Expect(data).To(Equal([]byte("hello")))
}

func TestRedisStore_GetMissing(t *testing.T) {
	RegisterTestingT(t)

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, mr.Addr())
	Expect(err).To(BeNil())
	defer store.Close()

	_, found := store.Get(ctx, "nope")

	Expect(found).To(BeFalse())
}

func TestRedisStore_DeleteAndFlush(t *testing.T) {
	RegisterTestingT(t)

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, mr.Addr())
	Expect(err).To(BeNil())
	defer store.Close()

	store.Set(ctx, "a", []byte("1"), time.Minute)
	store.Set(ctx, "b", []byte("2"), time.Minute)

	store.Delete(ctx, "a")
	Expect(store.Len(ctx)).To(Equal(1))

	store.Flush(ctx)
	Expect(store.Len(ctx)).To(Equal(0))
}

func TestRedisStore_Expiry(t *testing.T) {
	RegisterTestingT(t)

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, mr.Addr())
	Expect(err).To(BeNil())
	defer store.Close()

	store.Set(ctx, "transient", []byte("x"), time.Minute)

	mr.FastForward(2 * time.Minute)

	_, found := store.Get(ctx, "transient")

	Expect(found).To(BeFalse())
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	RegisterTestingT(t)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRedisStore(ctx, addr)

	Expect(err).To(HaveOccurred())
	Expect(store).To(BeNil())
}
