package cmd

import (
	"context"
	"image/png"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vtusim/datarecording"
	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/voxel"
)

var _ = Describe("Camera flags", func() {
	It("should parse vectors", func() {
		v, err := parseVec("1, -2.5,3")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([3]float64{1, -2.5, 3}))

		_, err = parseVec("1,2")
		Expect(err).To(HaveOccurred())

		_, err = parseVec("1,x,2")
		Expect(err).To(HaveOccurred())
	})

	It("should turn the heading around the vertical axis", func() {
		v := turn([3]float64{0, 1, 1}, 3.141592653589793/2)

		Expect(v[0]).To(BeNumerically("~", 1, 1e-9))
		Expect(v[1]).To(Equal(1.0))
		Expect(v[2]).To(BeNumerically("~", 0, 1e-9))
	})

	It("should keep the heading of a single frame", func() {
		c := cameraFlags{position: "1,2,3", heading: "0,0,1"}

		cam, err := c.camera(fixed.Q8, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(cam.Position).To(Equal(fixed.Vec3{256, 512, 768}))
		Expect(cam.Heading).To(Equal(fixed.Vec3{0, 0, 256}))
	})

	It("should number paths of several frames", func() {
		Expect(numberedPath("out/f.png", 0, 1)).To(Equal("out/f.png"))
		Expect(numberedPath("out/f.png", 3, 8)).To(Equal("out/f_003.png"))
	})
})

var _ = Describe("Commands", func() {
	var dir string

	run := func(args ...string) error {
		rootCmd.SetArgs(append(args, "--env", filepath.Join(dir, "none.env")))
		return rootCmd.ExecuteContext(context.Background())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should generate and inspect a volume", func() {
		path := filepath.Join(dir, "terrain.vox")

		Expect(run("volume", "gen", path, "--radius=8", "--seed=3")).
			To(Succeed())

		v, err := voxel.LoadVolumeFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Radius()).To(Equal(8))
		Expect(v.SolidCount()).To(BeNumerically(">", 0))

		Expect(run("volume", "info", path)).To(Succeed())
	})

	It("should reject an invalid configuration", func() {
		Expect(run("volume", "gen", filepath.Join(dir, "v.vox"),
			"--vtus=0")).NotTo(Succeed())
	})

	It("should reject a render with an invalid number format", func() {
		DeferCleanup(func() {
			flags := rootCmd.PersistentFlags()
			Expect(flags.Set("bits", "20")).To(Succeed())
			Expect(flags.Set("frac-bits", "8")).To(Succeed())
		})

		err := run("render", "--radius=8", "--bits=8", "--frac-bits=12",
			"--out", filepath.Join(dir, "bad.png"), "--db=")
		Expect(err).To(MatchError(ContainSubstring("fixed-point format")))

		_, statErr := os.Stat(filepath.Join(dir, "bad.png"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should render and record a frame", func() {
		out := filepath.Join(dir, "frame.png")
		db := filepath.Join(dir, "rays")

		Expect(run("render", "--radius=8", "--vtus=2",
			"--width=4", "--height=2",
			"--pos=0.5,3.5,-6.5", "--heading=0,-0.5,1",
			"--out", out, "--db", db)).To(Succeed())

		file, err := os.Open(out)
		Expect(err).NotTo(HaveOccurred())
		defer file.Close()

		img, err := png.Decode(file)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(4))
		Expect(img.Bounds().Dy()).To(Equal(2))

		reader, err := datarecording.NewReader(db + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(datarecording.RayTable, datarecording.RayRecord{})
		rows, total, err := reader.Query(context.Background(),
			datarecording.RayTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(8))
		Expect(rows).To(HaveLen(8))
	})

	It("should trace a frame into JSON lines", func() {
		out := filepath.Join(dir, "trace.jsonl")

		Expect(run("trace", "--radius=8", "--vtus=2",
			"--width=4", "--height=2",
			"--pos=0.5,3.5,-6.5", "--heading=0,-0.5,1",
			"--json", out, "--db=")).To(Succeed())

		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"ray"`))
	})
})
