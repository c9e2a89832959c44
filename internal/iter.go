package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeqKeyed pairs every value of a sequence with the same key.
func IterSeqKeyed[K any, V any](key K, seq iter.Seq[V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for val := range seq {
			if !yield(key, val) {
				return
			}
		}
	}
}
