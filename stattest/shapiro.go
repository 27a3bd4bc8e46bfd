package stattest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ShapiroWilk tests the null hypothesis that x is drawn from a normal
// distribution, using the Royston approximation of the W statistic and
// its p-value. Inputs with fewer than 3 values, fewer than 4 unique
// values, or zero range are not computable.
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 || uniqueCount(x) < 4 {
		return 0, 0, ErrNotComputable
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	if sorted[n-1]-sorted[0] <= 0 {
		return 0, 0, ErrNotComputable
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1}

	// Expected normal order statistics (Blom scores)
	m := make([]float64, n)
	var ssm float64
	for i := 0; i < n; i++ {
		m[i] = norm.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		ssm += m[i] * m[i]
	}

	// Royston polynomial-corrected weights
	a := make([]float64, n)
	u := 1 / math.Sqrt(float64(n))

	if n == 3 {
		a[0] = -math.Sqrt2 / 2
		a[2] = math.Sqrt2 / 2
	} else {
		rssm := math.Sqrt(ssm)

		an := m[n-1]/rssm + u*(0.221157+u*(-0.147981+u*(-2.071190+u*(4.434685+u*-2.706056))))

		var phi float64
		if n <= 5 {
			phi = (ssm - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
			a[n-1] = an
			a[0] = -an
			for i := 1; i < n-1; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
		} else {
			an1 := m[n-2]/rssm + u*(0.042981+u*(-0.293762+u*(-1.752461+u*(5.682633+u*-3.582633))))
			phi = (ssm - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
			a[n-1], a[n-2] = an, an1
			a[0], a[1] = -an, -an1
			for i := 2; i < n-2; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
		}
	}

	// W statistic
	var mean float64
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	var num, den float64
	for i, v := range sorted {
		num += a[i] * v
		den += (v - mean) * (v - mean)
	}
	w = num * num / den

	if w >= 1 {
		return 1, 1, nil
	}

	// Normalizing transform for the p-value
	var z float64
	switch {
	case n == 3:
		p = 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		return w, p, nil
	case n <= 11:
		fn := float64(n)
		g := -2.273 + 0.459*fn
		mu := 0.5440 + fn*(-0.39978+fn*(0.025054+fn*-0.0006714))
		sig := math.Exp(1.3822 + fn*(-0.77857+fn*(0.062767+fn*-0.0020322)))
		if g-math.Log(1-w) <= 0 {
			return w, 0, nil
		}
		z = (-math.Log(g-math.Log(1-w)) - mu) / sig
	default:
		ln := math.Log(float64(n))
		mu := -1.5861 + ln*(-0.31082+ln*(-0.083751+ln*0.0038915))
		sig := math.Exp(-0.4803 + ln*(-0.082676+ln*0.0030302))
		z = (math.Log(1-w) - mu) / sig
	}

	p = 1 - norm.CDF(z)
	return w, p, nil
}
