package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Fluid", func() {
	var f *fluid.Fluid

	Describe("grid indexing", func() {
		BeforeEach(func() {
			f = fluid.New(fluid.NewConfig(3, 0))
		})

		DescribeTable("maps lattice coordinates row-major",
			func(x, y, want int) {
				Expect(f.Index(x, y)).To(Equal(want))
			},
			Entry("origin", 0, 0, 0),
			Entry("end of first row", 4, 0, 4),
			Entry("start of second row", 0, 1, 5),
			Entry("centre", 2, 2, 12),
			Entry("last cell", 4, 4, 24),
		)

		It("reports n and the buffer length", func() {
			Expect(f.InteriorSize()).To(Equal(3))
			Expect(f.BufferLength()).To(Equal(25))
		})
	})

	Context("with zero diffusion", func() {
		BeforeEach(func() {
			f = fluid.New(fluid.NewConfig(3, 0))
		})

		It("returns the dt-scaled injection after one step", func() {
			f.AddDensity(f.Index(2, 2), 100)
			f.Step()
			Expect(f.DensityAt(f.Index(2, 2))).To(Equal(10.0))
		})

		It("accumulates injections until the next step", func() {
			i := f.Index(1, 2)
			f.AddDensity(i, 30)
			f.AddDensity(i, 20)
			Expect(f.DensityAt(i)).To(BeZero())
			f.Step()
			Expect(f.DensityAt(i)).To(BeNumerically("~", 5.0, 1e-12))
		})

		It("honours a changed time step", func() {
			f.SetDt(0.5)
			f.AddDensity(f.Index(3, 3), 8)
			f.Step()
			Expect(f.DensityAt(f.Index(3, 3))).To(Equal(4.0))
		})
	})

	Context("with diffusion", func() {
		BeforeEach(func() {
			f = fluid.New(fluid.NewConfig(3, 1.0))
			f.AddDensity(f.Index(2, 2), 100)
			f.Step()
		})

		It("spreads density to the lattice neighbours", func() {
			for _, p := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
				Expect(f.DensityAt(f.Index(p[0], p[1]))).To(BeNumerically(">", 0))
			}
			Expect(f.DensityAt(f.Index(2, 2))).To(BeNumerically("<", 10))
		})

		It("never writes the border ring", func() {
			g := f.Grid()
			for i := 0; i < f.BufferLength(); i++ {
				x, y := g.Coord(i)
				if !g.Interior(x, y) {
					Expect(f.DensityAt(i)).To(BeZero(), "border cell (%d,%d)", x, y)
				}
			}
		})

		It("keeps every buffer length across steps", func() {
			for i := 0; i < 10; i++ {
				f.Step()
			}
			Expect(f.BufferLength()).To(Equal(25))
			Expect(f.Density()).To(HaveLen(25))
		})
	})

	Describe("the relaxation engine", func() {
		It("solves the reference 4x4 system in 10 sweeps", func() {
			eq := func(c, a, b, d float64, i, j, k int) fluid.Equation[struct{}] {
				return fluid.Equation[struct{}]{Eval: func(v []float64, _ struct{}) float64 {
					return (c + a*v[i] + b*v[j] + d*v[k]) / 10
				}}
			}
			eqs := []fluid.Equation[struct{}]{
				eq(3, 2, 1, 1, 1, 2, 3),
				eq(15, 2, 1, 1, 0, 2, 3),
				eq(27, 1, 1, 1, 0, 1, 3),
				eq(-9, 1, 1, 2, 0, 1, 2),
			}

			got := fluid.GaussSeidel(eqs, []float64{0, 0, 0, 0}, 10)
			Expect(got).To(HaveLen(4))
			Expect(got[0]).To(BeNumerically("~", 1, 1e-6))
			Expect(got[1]).To(BeNumerically("~", 2, 1e-6))
			Expect(got[2]).To(BeNumerically("~", 3, 1e-6))
			Expect(got[3]).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Describe("host-side validation", func() {
		It("rejects coordinates outside the lattice", func() {
			g := fluid.NewGrid(3)
			_, err := g.CheckedIndex(5, 0)
			Expect(err).To(MatchError(fluid.ErrOutOfBounds))
		})

		It("rejects an empty grid", func() {
			Expect(fluid.NewConfig(0, 1).Validate()).To(MatchError(fluid.ErrInvalidConfig))
		})
	})
})
