package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/publish"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/server"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
	"github.com/sapporo-wes/yevis-cli-sub000/test-integration/publish/helpers"
)

var _ = Describe("Previewing an assembled registry", Label("preview"), func() {
	var (
		cs         *helpers.ContentServer
		rec        *metadata.Record
		httpServer *httptest.Server
	)

	BeforeEach(func() {
		cs = helpers.NewContentServer()
		rec = helpers.NewCWLRecord(cs, uuid.MustParse("be7fa3a0-30ec-4249-9f09-2f64e2d1b0bc"), "1.0.0")

		repo := githost.Repository{Owner: "suecharo", Name: "yevis-registry"}
		tree, err := publish.Assemble(ctx, fetch.NewDefaultFetcher(), nil, []*metadata.Record{rec},
			publish.Options{Repository: repo})
		Expect(err).NotTo(HaveOccurred())

		httpServer = httptest.NewServer(server.NewRouter(tree))
	})

	AfterEach(func() {
		httpServer.Close()
		cs.Close()
	})

	getJSON := func(path string, v any) *http.Response {
		resp, err := http.Get(httpServer.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		if v != nil {
			Expect(json.Unmarshal(body, v)).To(Succeed(), "body: %s", body)
		}
		return resp
	}

	It("serves the TRS documents of the assembled tree", func() {
		var info trs.ServiceInfo
		resp := getJSON("/service-info", &info)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(info.ID).To(Equal("io.github.suecharo.yevis-registry"))

		var tools []trs.Tool
		resp = getJSON("/tools", &tools)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(tools).To(HaveLen(1))
		Expect(tools[0].ID).To(Equal(rec.ID))

		var descriptor trs.FileWrapper
		resp = getJSON(fmt.Sprintf("/tools/%s/versions/1.0.0/CWL/descriptor", rec.ID), &descriptor)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(descriptor.Content).NotTo(BeNil())
		Expect(*descriptor.Content).To(Equal(helpers.TrimmingWorkflowCWL))
	})

	It("serves the health and version endpoints", func() {
		var health map[string]string
		resp := getJSON("/health", &health)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(health).To(HaveKeyWithValue("status", "healthy"))

		var version map[string]string
		resp = getJSON("/version", &version)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(version).To(HaveKey("version"))
	})

	It("returns a JSON error for unknown documents", func() {
		var errResp map[string]string
		resp := getJSON("/tools/unknown", &errResp)
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(errResp).To(HaveKey("error"))
	})
})
