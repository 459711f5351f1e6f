package simd

const (
	// transposeBlock is the square tile edge, sized so a source tile and a
	// destination tile fit in L1 together.
	transposeBlock = 32

	// smallDim is the threshold below which the plain double loop beats the
	// blocked path.
	smallDim = 4
)

// Transpose writes the transposed rows×cols matrix src into dst. Small
// matrices use the plain double loop; larger ones are partitioned into
// fixed-size square blocks, and within each block chunk-width runs of a
// source row scatter to destination columns, with scalar handling of any
// leftover columns per block row.
func (Backend[T]) Transpose(dst, src []T, rows, cols int) error {
	if rows == 0 || cols == 0 {
		return nil
	}
	if rows == 1 && cols == 1 {
		dst[0] = src[0]
		return nil
	}
	if rows <= smallDim || cols <= smallDim {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dst[j*rows+i] = src[i*cols+j]
			}
		}
		return nil
	}

	for i0 := 0; i0 < rows; i0 += transposeBlock {
		iMax := min(i0+transposeBlock, rows)
		for j0 := 0; j0 < cols; j0 += transposeBlock {
			jMax := min(j0+transposeBlock, cols)
			for i := i0; i < iMax; i++ {
				row := src[i*cols : (i+1)*cols]
				j := j0
				for ; j+chunk <= jMax; j += chunk {
					x := row[j : j+chunk : j+chunk]
					for l := 0; l < chunk; l++ {
						dst[(j+l)*rows+i] = x[l]
					}
				}
				for ; j < jMax; j++ {
					dst[j*rows+i] = row[j]
				}
			}
		}
	}
	return nil
}
