package match

import (
	"errors"
)

// unassignedCost is the cost placed on columns before reduction, acting as
// an effective infinity for the solver
const unassignedCost = 1000000.0

// solveDense solves the dense linear assignment problem with the
// Jonker-Volgenant algorithm.  The assignment is written to x (column
// assigned to each row) and y (row assigned to each column)
func solveDense(n int, cost [][]float64, x, y []int) (int, error) {

	freeRows := make([]int, n)
	v := make([]float64, n)

	ret := columnReduction(n, cost, freeRows, x, y, v)

	for i := 0; ret > 0 && i < 2; i++ {
		ret = augmentingRowReduction(n, cost, ret, freeRows, x, y, v)
	}

	if ret > 0 {
		if err := augment(n, cost, ret, freeRows, x, y, v); err != nil {
			return 0, err
		}

		ret = 0
	}

	return ret, nil
}

// columnReduction performs column reduction and reduction transfer on a
// dense cost matrix, returning the number of unassigned rows
func columnReduction(n int, cost [][]float64, freeRows, x, y []int, v []float64) int {

	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		x[i] = -1
		v[i] = unassignedCost
		y[i] = 0
		unique[i] = true
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c := cost[i][j]; c < v[j] {
				v[j] = c
				y[j] = i
			}
		}
	}

	for j := n - 1; j >= 0; j-- {
		i := y[j]

		if x[i] < 0 {
			x[i] = j
		} else {
			unique[i] = false
			y[j] = -1
		}
	}

	nFreeRows := 0

	for i := 0; i < n; i++ {

		if x[i] < 0 {
			freeRows[nFreeRows] = i
			nFreeRows++
			continue
		}

		if !unique[i] {
			continue
		}

		j := x[i]
		minVal := float64(unassignedCost)

		for j2 := 0; j2 < n; j2++ {
			if j2 == j {
				continue
			}

			if c := cost[i][j2] - v[j2]; c < minVal {
				minVal = c
			}
		}

		v[j] -= minVal
	}

	return nFreeRows
}

// augmentingRowReduction performs augmenting row reduction on a dense cost
// matrix, returning the number of rows still unassigned
func augmentingRowReduction(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) int {

	current := 0
	newFreeRows := 0
	rrCnt := 0

	for current < nFreeRows {

		rrCnt++
		freeI := freeRows[current]
		current++

		// find the two columns with the lowest reduced cost for this row
		j1 := 0
		v1 := cost[freeI][0] - v[0]
		j2 := -1
		v2 := float64(unassignedCost)

		for j := 1; j < n; j++ {
			c := cost[freeI][j] - v[j]

			if c < v2 {
				if c >= v1 {
					v2 = c
					j2 = j
				} else {
					v2 = v1
					v1 = c
					j2 = j1
					j1 = j
				}
			}
		}

		i0 := y[j1]
		v1New := v[j1] - (v2 - v1)
		v1Lowers := v1New < v[j1]

		if rrCnt < current*n {
			if v1Lowers {
				v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					freeRows[current] = i0
				} else {
					freeRows[newFreeRows] = i0
					newFreeRows++
				}
			}
		} else if i0 >= 0 {
			freeRows[newFreeRows] = i0
			newFreeRows++
		}

		x[freeI] = j1
		y[j1] = freeI
	}

	return newFreeRows
}

// lowestColumns moves the columns with the minimum distance onto the scan
// list, returning the new scan list bound
func lowestColumns(n, lo int, d []float64, cols, y []int) int {

	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < n; k++ {

		j := cols[k]

		if d[j] > mind {
			continue
		}

		if d[j] < mind {
			hi = lo
			mind = d[j]
		}

		cols[k] = cols[hi]
		cols[hi] = j
		hi++
	}

	return hi
}

// scanColumns scans the remaining columns, lowering their distance through
// the columns already on the scan list, and returns an unassigned column
// once one becomes reachable at the minimum distance
func scanColumns(n int, cost [][]float64, lo, hi *int, d []float64,
	cols, pred, y []int, v []float64) int {

	for *lo != *hi {

		j := cols[*lo]
		*lo++
		i := y[j]
		mind := d[j]
		h := cost[i][j] - v[j] - mind

		for k := *hi; k < n; k++ {
			j = cols[k]
			cred := cost[i][j] - v[j] - h

			if cred >= d[j] {
				continue
			}

			d[j] = cred
			pred[j] = i

			if cred == mind {
				if y[j] < 0 {
					return j
				}

				cols[k] = cols[*hi]
				cols[*hi] = j
				(*hi)++
			}
		}
	}

	return -1
}

// shortestPath runs one iteration of the modified Dijkstra shortest path
// search from the given unassigned row, returning the column ending the
// augmenting path
func shortestPath(n int, cost [][]float64, startI int, y []int, v []float64,
	pred []int) int {

	lo := 0
	hi := 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		cols[i] = i
		pred[i] = startI
		d[i] = cost[startI][i] - v[i]
	}

	for finalJ == -1 {

		if lo == hi {
			nReady = lo
			hi = lowestColumns(n, lo, d, cols, y)

			for k := lo; k < hi; k++ {
				if j := cols[k]; y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = scanColumns(n, cost, &lo, &hi, d, cols, pred, y, v)
		}
	}

	mind := d[cols[lo]]

	for k := 0; k < nReady; k++ {
		j := cols[k]
		v[j] += d[j] - mind
	}

	return finalJ
}

// augment finds augmenting paths for all remaining unassigned rows of a
// dense cost matrix
func augment(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) error {

	pred := make([]int, n)

	for _, freeI := range freeRows[:nFreeRows] {

		j := shortestPath(n, cost, freeI, y, v, pred)

		if j < 0 || j >= n {
			return errors.New("augmenting path ended outside the cost matrix")
		}

		i := -1

		for k := 0; i != freeI; k++ {

			if k >= n {
				return errors.New("augmenting path longer than the cost matrix")
			}

			i = pred[j]
			y[j] = i
			j, x[i] = x[i], j
		}
	}

	return nil
}
