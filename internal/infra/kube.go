// Package infra performs the read-only Kubernetes queries behind
// `devopsctl infrastructure` and `devopsctl deploy`.
package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"aictl/internal/common/fsutil"
)

// NewClientset builds a Kubernetes client, preferring in-cluster credentials
// and falling back to a kubeconfig (explicit path, then $KUBECONFIG, then
// ~/.kube/config).
func NewClientset(kubeconfig string) (kubernetes.Interface, error) {
	if cfg, err := rest.InClusterConfig(); err == nil {
		return kubernetes.NewForConfig(cfg)
	}

	path := kubeconfig
	if path == "" {
		path = os.Getenv("KUBECONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir for kubeconfig: %w", err)
		}
		path = filepath.Join(home, ".kube", "config")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(path) {
		return nil, fmt.Errorf("kubeconfig %s not found (try: kubectl config view, or pass --kubeconfig)", path)
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig %s: %w", path, err)
	}
	return kubernetes.NewForConfig(cfg)
}
