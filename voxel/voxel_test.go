package voxel_test

import (
	"bytes"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/voxel"
)

var _ = Describe("Block", func() {
	It("should fit in five bits", func() {
		for _, b := range voxel.Blocks() {
			Expect(uint8(b)).To(BeNumerically("<", 1<<voxel.BlockBits))
		}
	})

	It("should parse and print names", func() {
		b, err := voxel.ParseBlock("Oak_Leaves")
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(voxel.OakLeaves))
		Expect(b.String()).To(Equal("oak_leaves"))

		_, err = voxel.ParseBlock("bedrock")
		Expect(err).To(HaveOccurred())

		Expect(voxel.Block(31).String()).To(Equal("block(31)"))
	})

	It("should treat only air as empty", func() {
		Expect(voxel.Air.IsEmpty()).To(BeTrue())
		Expect(voxel.Water.IsEmpty()).To(BeFalse())
		Expect(voxel.Glass.IsEmpty()).To(BeFalse())
	})
})

var _ = Describe("Coord", func() {
	It("should round-trip every tag", func() {
		for x := voxel.TagMin; x <= voxel.TagMax; x += 7 {
			for y := voxel.TagMin; y <= voxel.TagMax; y += 5 {
				for z := voxel.TagMin; z <= voxel.TagMax; z++ {
					c := voxel.Coord{X: x, Y: y, Z: z}
					Expect(voxel.Unpack(c.Pack())).To(Equal(c))
				}
			}
		}
	})

	It("should pack x into the most significant bits", func() {
		Expect(voxel.Coord{X: 1}.Pack()).To(Equal(uint32(1 << 14)))
		Expect(voxel.Coord{Z: -1}.Pack()).To(Equal(uint32(0x7f)))
		Expect(voxel.MinCoord.Pack()).To(Equal(uint32(0x40<<14 | 0x40<<7 | 0x40)))
	})

	It("should know the tag range", func() {
		Expect(voxel.Coord{X: 63, Y: -64, Z: 0}.InTagRange()).To(BeTrue())
		Expect(voxel.Coord{X: 64}.InTagRange()).To(BeFalse())
		Expect(voxel.Coord{Z: -65}.InTagRange()).To(BeFalse())
	})

	It("should convert from floored positions", func() {
		f := fixed.Q8
		c := voxel.CoordFromGrid(f.FloorVec(f.Vec(20, 10, -3)))

		Expect(c).To(Equal(voxel.Coord{X: 20, Y: 10, Z: -3}))
		Expect(c.Grid()).To(Equal(fixed.Vec3i{20, 10, -3}))
	})
})

var _ = Describe("Volume", func() {
	var v *voxel.Volume

	BeforeEach(func() {
		v = voxel.MustVolume(40)
	})

	It("should reject bad radii", func() {
		_, err := voxel.NewVolume(0)
		Expect(err).To(HaveOccurred())
	})

	It("should use the dense x-fastest index", func() {
		i, ok := v.Index(voxel.Coord{X: 1, Y: 2, Z: 3})
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(80*(80*(3+40)+(2+40)) + (1 + 40)))
		Expect(v.CoordOf(i)).To(Equal(voxel.Coord{X: 1, Y: 2, Z: 3}))

		_, ok = v.Index(voxel.Coord{X: 40})
		Expect(ok).To(BeFalse())
	})

	It("should read air and ignore writes outside the cube", func() {
		out := voxel.Coord{X: -41}

		Expect(v.Set(out, voxel.Stone)).To(BeFalse())
		Expect(v.Get(out)).To(Equal(voxel.Air))
		Expect(v.SolidCount()).To(BeZero())
	})

	It("should index solid cells", func() {
		v.Set(voxel.Coord{X: 1}, voxel.Stone)
		v.Set(voxel.Coord{Y: 1}, voxel.Dirt)
		v.Set(voxel.Coord{Y: 1}, voxel.Air)
		v.Fill(voxel.Coord{Z: 5}, voxel.Coord{X: 1, Y: 1, Z: 5}, voxel.Glass)

		Expect(v.SolidCount()).To(Equal(uint64(5)))

		var cells []voxel.Coord
		v.SolidCells(func(c voxel.Coord, b voxel.Block) {
			cells = append(cells, c)
		})
		Expect(cells).To(HaveLen(5))
		Expect(cells[0]).To(Equal(voxel.Coord{X: 1}))
	})

	It("should save and load compressed files", func() {
		voxel.Sphere(v, voxel.Coord{X: 3, Y: -2, Z: 7}, 4, voxel.Stone)
		voxel.Floor(v, -10, voxel.Water)

		var buf bytes.Buffer
		Expect(voxel.SaveVolume(&buf, v)).To(Succeed())
		Expect(buf.Len()).To(BeNumerically("<", len(v.Raw())))

		loaded, err := voxel.LoadVolume(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Radius()).To(Equal(40))
		Expect(loaded.Raw()).To(Equal(v.Raw()))
		Expect(loaded.SolidCount()).To(Equal(v.SolidCount()))
	})

	It("should go through the file system", func() {
		path := filepath.Join(GinkgoT().TempDir(), "world.vtuv")
		v.Set(voxel.Coord{}, voxel.Sand)

		Expect(voxel.SaveVolumeFile(path, v)).To(Succeed())
		loaded, err := voxel.LoadVolumeFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Get(voxel.Coord{})).To(Equal(voxel.Sand))
	})

	It("should reject garbage", func() {
		_, err := voxel.LoadVolume(bytes.NewReader([]byte("not a volume")))
		Expect(err).To(HaveOccurred())
	})

	It("should load raw chunk dumps", func() {
		raw := make([]byte, 4*4*4)
		raw[4*(4*2+2)+2] = byte(voxel.Glass)
		raw[0] = 200

		chunk, err := voxel.LoadRawChunk(bytes.NewReader(raw), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunk.Get(voxel.Coord{})).To(Equal(voxel.Glass))
		Expect(chunk.Get(voxel.Coord{X: -2, Y: -2, Z: -2})).To(Equal(voxel.Air))
		Expect(chunk.SolidCount()).To(Equal(uint64(1)))
	})
})

var _ = Describe("Terrain", func() {
	It("should be deterministic", func() {
		a := voxel.MustVolume(16)
		b := voxel.MustVolume(16)

		voxel.Terrain(a, voxel.DefaultTerrainOptions(7))
		voxel.Terrain(b, voxel.DefaultTerrainOptions(7))

		Expect(a.Raw()).To(Equal(b.Raw()))
	})

	It("should put stone at the bottom and air at the top", func() {
		v := voxel.MustVolume(16)
		voxel.Terrain(v, voxel.DefaultTerrainOptions(1))

		Expect(v.Get(voxel.Coord{X: 0, Y: -16, Z: 0})).To(Equal(voxel.Stone))
		Expect(v.Get(voxel.Coord{X: 0, Y: 15, Z: 0})).To(Equal(voxel.Air))
	})
})
