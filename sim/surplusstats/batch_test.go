package surplusstats

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func randomTrajectory(seed int64, n int) []Point {
	r := rand.New(rand.NewSource(seed))
	points := make([]Point, 0, n)

	t := r.Float64() * 10
	for i := 0; i < n; i++ {
		if r.Float64() > 0.2 {
			t += r.Float64() * 5
		}

		points = append(points, Point{Time: t, Surplus: r.Float64()*200 - 100})
	}

	return points
}

var _ = Describe("BatchCalculator", func() {
	It("should match the stream calculator", func() {
		for seed := int64(1); seed <= 20; seed++ {
			points := randomTrajectory(seed, 500)

			stream := NewStreamCalculator()
			for _, p := range points {
				Expect(stream.AddPoint(p.Time, p.Surplus)).To(Succeed())
			}

			batch, err := Calculate(points)
			Expect(err).ToNot(HaveOccurred())

			s := stream.Calculate()
			Expect(s.AverageInventory).To(BeNumerically("~", batch.AverageInventory, 1e-9))
			Expect(s.AverageBacklog).To(BeNumerically("~", batch.AverageBacklog, 1e-9))
			Expect(s.ServiceLevel).To(BeNumerically("~", batch.ServiceLevel, 1e-9))
			Expect(s.MinSurplus).To(Equal(batch.MinSurplus))
			Expect(s.MaxSurplus).To(Equal(batch.MaxSurplus))
			Expect(s.InitialTime).To(Equal(batch.InitialTime))
			Expect(s.FinalTime).To(Equal(batch.FinalTime))
		}
	})

	It("should translate the points", func() {
		points := []Point{{0, -10}, {10, -10}}

		s, err := TranslateAndCalculate(20, points)

		Expect(err).ToNot(HaveOccurred())
		Expect(s.AverageInventory).To(BeNumerically("~", 10, 1e-12))
		Expect(s.AverageBacklog).To(Equal(0.0))
		Expect(s.ServiceLevel).To(BeNumerically("~", 1, 1e-12))
		Expect(points[0].Surplus).To(Equal(-10.0))
	})

	It("should accumulate points over several calls", func() {
		c := NewBatchCalculator()

		Expect(c.AddPoints([]Point{{0, 50}, {1, 50}})).To(Succeed())
		Expect(c.AddPoints([]Point{{1, -50}, {2, -50}})).To(Succeed())

		s := c.Calculate()
		Expect(s.AverageInventory).To(BeNumerically("~", 25, 1e-12))
		Expect(s.AverageBacklog).To(BeNumerically("~", 25, 1e-12))
		Expect(s.ServiceLevel).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("should reject points out of order", func() {
		_, err := Calculate([]Point{{2, 0}, {1, 0}})

		Expect(err).To(MatchError(ErrOutOfOrder))
	})

	It("should return empty statistics without points", func() {
		s := NewBatchCalculator().Calculate()

		Expect(s.AverageInventory).To(Equal(0.0))
		Expect(s.ServiceLevel).To(Equal(0.0))
	})
})
