package footprint

import (
	"reflect"
	"sort"
	"unsafe"
)

const (
	ptrSize = unsafe.Sizeof(uintptr(0))

	hmapSize  = 48 // header of a builtin map
	hchanSize = 96 // header of a channel

	maxSmallSize = 32768 // objects larger than this are allocated in whole pages
	pageSize     = 8192
)

// sizeClasses are the object sizes handed out by the allocator for small objects.
var sizeClasses = [...]uintptr{
	0, 8, 16, 24, 32, 48, 64, 80, 96, 112, 128, 144, 160, 176, 192, 208, 224, 240, 256,
	288, 320, 352, 384, 416, 448, 480, 512, 576, 640, 704, 768, 896, 1024, 1152, 1280,
	1408, 1536, 1792, 2048, 2304, 2688, 3072, 3200, 3456, 4096, 4864, 5376, 6144, 6528,
	6784, 6912, 8192, 9472, 9728, 10240, 10880, 12288, 13568, 14336, 16384, 18432, 19072,
	20480, 21760, 24576, 27264, 28672, 32768,
}

// roundUp returns the number of bytes the allocator reserves for an object of the given size.
func roundUp(size uintptr) uintptr {
	if size == 0 {
		return 0
	}
	if size > maxSmallSize {
		return (size + pageSize - 1) / pageSize * pageSize
	}
	i := sort.Search(len(sizeClasses), func(i int) bool {
		return sizeClasses[i] >= size
	})
	return sizeClasses[i]
}

// builtin maps store 8 entries per bucket, and grow once they hold 6.5 entries per bucket on average.
const (
	bucketCount   = 8
	loadFactorNum = 13
	loadFactorDen = 2
	maxInline     = 128 // larger keys and values are stored indirectly
)

// mapBytes returns the number of bytes used by the bucket array of a map of type t,
// holding count entries and created with the given size hint.
func mapBytes(t reflect.Type, count, hint int) int64 {
	// small maps allocate their buckets on first insert
	if count == 0 && hint <= bucketCount {
		return 0
	}

	n := max(count, hint)

	var b uint
	for overLoad(n, b) {
		b++
	}

	buckets := uintptr(1) << b
	if b >= 4 {
		// overflow buckets that are allocated up front
		buckets += uintptr(1) << (b - 4)
	}

	key, keyIndirect := slotSize(t.Key())
	elem, elemIndirect := slotSize(t.Elem())
	bucket := bucketCount + bucketCount*key + bucketCount*elem + ptrSize

	bytes := int64(roundUp(buckets * bucket))
	if keyIndirect {
		bytes += int64(count) * int64(roundUp(t.Key().Size()))
	}
	if elemIndirect {
		bytes += int64(count) * int64(roundUp(t.Elem().Size()))
	}
	return bytes
}

// overLoad reports if count entries overload a map with 1 << b buckets.
func overLoad(count int, b uint) bool {
	return count > bucketCount && uintptr(count) > loadFactorNum*((uintptr(1)<<b)/loadFactorDen)
}

// slotSize returns the size of a slot holding values of type t inside a bucket.
func slotSize(t reflect.Type) (size uintptr, indirect bool) {
	if t.Size() > maxInline {
		return ptrSize, true
	}
	return t.Size(), false
}
