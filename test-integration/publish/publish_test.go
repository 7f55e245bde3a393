package integration

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost/local"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/publish"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
	"github.com/sapporo-wes/yevis-cli-sub000/test-integration/publish/helpers"
)

var _ = Describe("Publishing to a local repository", Label("publish"), func() {
	var (
		tempDir   string
		cs        *helpers.ContentServer
		host      *local.Host
		repo      githost.Repository
		fetcher   fetch.Fetcher
		publisher *publish.Publisher
	)

	BeforeEach(func() {
		tempDir = createTempDir("publish-test-")
		cs = helpers.NewContentServer()

		var err error
		host, err = local.Init(filepath.Join(tempDir, "registry.git"))
		Expect(err).NotTo(HaveOccurred())

		repo = githost.Repository{Owner: "suecharo", Name: "yevis-registry"}
		fetcher = fetch.NewDefaultFetcher()
		publisher = publish.NewPublisher(host, fetcher)
	})

	AfterEach(func() {
		cs.Close()
		cleanupTempDir(tempDir)
	})

	// publishRecords runs one publish to the default pages branch, reading
	// the previous state from the same branch the way the CLI does.
	publishRecords := func(records ...*metadata.Record) *publish.Result {
		src := local.NewSnapshotReader(host, githost.DefaultPagesBranch)
		result, err := publisher.Publish(ctx, src, records, publish.Options{Repository: repo})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	readJSON := func(path string, v any) {
		data, err := host.FileContent(githost.DefaultPagesBranch, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, v)).To(Succeed())
	}

	Context("First publish of a workflow", func() {
		It("commits every registry document in a single commit", func() {
			id := uuid.MustParse("be7fa3a0-30ec-4249-9f09-2f64e2d1b0bc")
			result := publishRecords(helpers.NewCWLRecord(cs, id, "1.0.0"))

			Expect(result.Branch).To(Equal(githost.DefaultPagesBranch))
			Expect(result.CommitSha).To(HaveLen(40))
			Expect(result.Message).To(ContainSubstring(
				fmt.Sprintf("Publish workflow, id: %s version: 1.0.0", id)))
			Expect(result.Tree).To(HaveLen(11))

			base := fmt.Sprintf("tools/%s/versions/1.0.0", id)
			for _, path := range []string{
				"service-info/index.json",
				"toolClasses/index.json",
				"tools/index.json",
				fmt.Sprintf("tools/%s/index.json", id),
				fmt.Sprintf("tools/%s/versions/index.json", id),
				base + "/index.json",
				base + "/yevis-metadata.json",
				base + "/CWL/descriptor/index.json",
				base + "/CWL/files/index.json",
				base + "/CWL/tests/index.json",
				base + "/containerfile/index.json",
			} {
				_, err := host.FileContent(githost.DefaultPagesBranch, path)
				Expect(err).NotTo(HaveOccurred(), "expected %s on the registry branch", path)
			}

			tip, err := host.GetBranchTipCommitSha(ctx, repo, githost.DefaultPagesBranch)
			Expect(err).NotTo(HaveOccurred())
			Expect(tip).To(Equal(result.CommitSha))
		})

		It("stores the descriptor content with its checksum", func() {
			rec := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")
			publishRecords(rec)

			var descriptor trs.FileWrapper
			readJSON(fmt.Sprintf("tools/%s/versions/1.0.0/CWL/descriptor/index.json", rec.ID), &descriptor)

			Expect(descriptor.Content).NotTo(BeNil())
			Expect(*descriptor.Content).To(Equal(helpers.TrimmingWorkflowCWL))

			sum := sha256.Sum256([]byte(helpers.TrimmingWorkflowCWL))
			Expect(descriptor.Checksum).To(HaveLen(1))
			Expect(descriptor.Checksum[0].Type).To(Equal("sha256"))
			Expect(descriptor.Checksum[0].Checksum).To(Equal(hex.EncodeToString(sum[:])))
		})

		It("round-trips the metadata record", func() {
			rec := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")
			publishRecords(rec)

			var stored metadata.Record
			readJSON(fmt.Sprintf("tools/%s/versions/1.0.0/yevis-metadata.json", rec.ID), &stored)
			Expect(&stored).To(Equal(rec))
		})

		It("exposes the published registry through the snapshot reader", func() {
			rec := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")
			publishRecords(rec)

			reader := local.NewSnapshotReader(host, githost.DefaultPagesBranch)

			info, err := reader.ServiceInfo(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ID).To(Equal("io.github.suecharo.yevis-registry"))
			Expect(info.Type.Artifact).To(Equal(trs.ServiceTypeArtifact))

			classes, err := reader.ToolClasses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(classes).NotTo(BeEmpty())

			tools, err := reader.Tools(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tools).To(HaveLen(1))
			Expect(tools[0].ID).To(Equal(rec.ID))
			Expect(tools[0].Versions).To(HaveLen(1))
			Expect(tools[0].Versions[0].ID).To(Equal("1.0.0"))
		})

		It("publishes records loaded from YAML files the way the CLI does", func() {
			rec := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")
			path := helpers.WriteRecordYAML(tempDir, rec)

			loaded, err := metadata.LoadRecords(ctx, fetcher, []string{path})
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(1))
			Expect(loaded[0]).To(Equal(rec))

			result := publishRecords(loaded...)
			Expect(result.Tree).To(HaveLen(11))
		})
	})

	Context("Republishing", func() {
		It("appends new versions and preserves the registry identity", func() {
			id := uuid.New()
			publishRecords(helpers.NewCWLRecord(cs, id, "1.0.0"))

			var first trs.ServiceInfo
			readJSON("service-info/index.json", &first)

			publishRecords(helpers.NewCWLRecord(cs, id, "1.1.0"))

			var second trs.ServiceInfo
			readJSON("service-info/index.json", &second)
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Name).To(Equal(first.Name))
			Expect(second.CreatedAt).To(Equal(first.CreatedAt))

			var tools []trs.Tool
			readJSON("tools/index.json", &tools)
			Expect(tools).To(HaveLen(1))
			Expect(tools[0].Versions).To(HaveLen(2))
			Expect(tools[0].Versions[0].ID).To(Equal("1.0.0"))
			Expect(tools[0].Versions[1].ID).To(Equal("1.1.0"))
		})

		It("replaces a republished version instead of duplicating it", func() {
			id := uuid.New()
			publishRecords(helpers.NewCWLRecord(cs, id, "1.0.0"))
			publishRecords(helpers.NewCWLRecord(cs, id, "1.0.0"))

			var tools []trs.Tool
			readJSON("tools/index.json", &tools)
			Expect(tools).To(HaveLen(1))
			Expect(tools[0].Versions).To(HaveLen(1))
		})

		It("leaves files the publish does not touch on the branch", func() {
			publishRecords(helpers.NewCWLRecord(cs, uuid.New(), "1.0.0"))

			// Layer a custom README over the registry branch, as a registry
			// owner editing their Pages site would.
			tip, err := host.GetBranchTipCommitSha(ctx, repo, githost.DefaultPagesBranch)
			Expect(err).NotTo(HaveOccurred())
			tipTree, err := host.GetTreeShaOfCommit(ctx, repo, tip)
			Expect(err).NotTo(HaveOccurred())
			treeSha, err := host.CreateTree(ctx, repo, tipTree, map[string]string{
				"README.md": "# my registry\n",
			})
			Expect(err).NotTo(HaveOccurred())
			commitSha, err := host.CreateCommit(ctx, repo, tip, treeSha, "Customize README")
			Expect(err).NotTo(HaveOccurred())
			Expect(host.UpdateRef(ctx, repo, githost.DefaultPagesBranch, commitSha)).To(Succeed())

			publishRecords(helpers.NewCWLRecord(cs, uuid.New(), "1.0.0"))

			content, err := host.FileContent(githost.DefaultPagesBranch, "README.md")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("# my registry\n"))
		})
	})

	Context("Publishing multiple workflows", func() {
		It("folds all records into one commit", func() {
			cwl := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")
			wdl := helpers.NewWDLRecord(cs, uuid.New(), "1.0.0")

			result := publishRecords(cwl, wdl)
			Expect(result.Message).To(ContainSubstring("Publish multiple workflows"))
			Expect(result.Tree).To(HaveLen(3 + 2*8))

			var tools []trs.Tool
			readJSON("tools/index.json", &tools)
			Expect(tools).To(HaveLen(2))

			var wdlVersions []trs.ToolVersion
			readJSON(fmt.Sprintf("tools/%s/versions/index.json", wdl.ID), &wdlVersions)
			Expect(wdlVersions).To(HaveLen(1))
			Expect(wdlVersions[0].DescriptorType).To(Equal([]trs.DescriptorType{trs.DescriptorTypeWDL}))
		})
	})

	Context("Publishing to a custom branch", func() {
		It("targets the branch named in the options", func() {
			rec := helpers.NewCWLRecord(cs, uuid.New(), "1.0.0")

			src := local.NewSnapshotReader(host, "registry")
			result, err := publisher.Publish(ctx, src, []*metadata.Record{rec}, publish.Options{
				Repository: repo,
				Branch:     "registry",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Branch).To(Equal("registry"))

			exists, err := host.BranchExists(ctx, repo, "registry")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = host.BranchExists(ctx, repo, githost.DefaultPagesBranch)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
