package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/mediaguard/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Context("server creation", func() {
		It("creates server with valid address", func() {
			srv, err := httpserver.New("localhost:9999", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("creates server with IP address", func() {
			srv, err := httpserver.New("127.0.0.1:9999", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("handles port-only address", func() {
			srv, err := httpserver.New(":9999", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("rejects invalid address", func() {
			srv, err := httpserver.New("invalid:host:port", noop)
			Expect(err).To(HaveOccurred())
			Expect(srv).To(BeNil())
		})
	})

	Context("server lifecycle", func() {
		It("serves requests and shuts down gracefully", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "ok")
			})

			srv, err := httpserver.New("127.0.0.1:19199", handler)
			Expect(err).NotTo(HaveOccurred())

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			Eventually(func() error {
				resp, err := http.Get("http://127.0.0.1:19199/")
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				return nil
			}, 2*time.Second, 50*time.Millisecond).Should(Succeed())

			Expect(srv.Shutdown(context.Background())).To(Succeed())
			Eventually(errCh, 2*time.Second).Should(Receive(BeNil()))
		})
	})
})
