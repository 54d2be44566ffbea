package infra

import (
	"context"
	"strings"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"aictl/pkg/types"
)

func int32Ptr(n int32) *int32 { return &n }

func deployment(name string, desired, ready int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "prod"},
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(desired),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: name, Image: name + ":v1"}},
				},
			},
		},
		Status: appsv1.DeploymentStatus{ReadyReplicas: ready},
	}
}

func TestHealthAllDeployments(t *testing.T) {
	client := fake.NewSimpleClientset(
		deployment("api", 3, 3),
		deployment("worker", 2, 1),
	)
	c := NewChecker(client, "prod")

	health, err := c.Health(context.Background(), "")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Namespace != "prod" || len(health.Services) != 2 {
		t.Fatalf("unexpected health: %+v", health)
	}
	byName := map[string]types.ServiceHealth{}
	for _, s := range health.Services {
		byName[s.Service] = s
	}
	if !byName["api"].Healthy || byName["api"].Status != "Available" {
		t.Fatalf("api should be healthy: %+v", byName["api"])
	}
	w := byName["worker"]
	if w.Healthy || w.Status != "Degraded" || w.Running != 1 || w.Desired != 2 {
		t.Fatalf("worker should be degraded: %+v", w)
	}
}

func TestHealthSingleService(t *testing.T) {
	client := fake.NewSimpleClientset(deployment("api", 1, 1))
	c := NewChecker(client, "prod")

	health, err := c.Health(context.Background(), "api")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if len(health.Services) != 1 || health.Services[0].Service != "api" {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestHealthServiceNotFound(t *testing.T) {
	client := fake.NewSimpleClientset()
	c := NewChecker(client, "prod")

	_, err := c.Health(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if !strings.Contains(err.Error(), "kubectl") {
		t.Fatalf("error should suggest a corrective command: %v", err)
	}
}

func TestHealthEmptyNamespace(t *testing.T) {
	client := fake.NewSimpleClientset()
	c := NewChecker(client, "prod")

	_, err := c.Health(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "no deployments") {
		t.Fatalf("expected empty-namespace error, got %v", err)
	}
}

func TestPreCheckReady(t *testing.T) {
	client := fake.NewSimpleClientset(deployment("api", 2, 2))
	c := NewChecker(client, "prod")

	check, err := c.PreCheck(context.Background(), "")
	if err != nil {
		t.Fatalf("pre-check: %v", err)
	}
	if check.Status != types.DeployReady || len(check.Unhealthy) != 0 {
		t.Fatalf("unexpected check: %+v", check)
	}
	if check.Recommendation != "Safe to deploy" {
		t.Fatalf("recommendation=%q", check.Recommendation)
	}
}

func TestPreCheckNotReady(t *testing.T) {
	client := fake.NewSimpleClientset(
		deployment("api", 2, 2),
		deployment("worker", 2, 0),
	)
	c := NewChecker(client, "prod")

	check, err := c.PreCheck(context.Background(), "")
	if err != nil {
		t.Fatalf("pre-check: %v", err)
	}
	if check.Status != types.DeployNotReady {
		t.Fatalf("status=%q", check.Status)
	}
	if len(check.Unhealthy) != 1 || check.Unhealthy[0].Service != "worker" {
		t.Fatalf("unexpected unhealthy list: %+v", check.Unhealthy)
	}
}

func TestPostCheckPartial(t *testing.T) {
	client := fake.NewSimpleClientset(
		deployment("api", 2, 2),
		deployment("worker", 4, 2),
	)
	c := NewChecker(client, "prod")

	check, err := c.PostCheck(context.Background(), "")
	if err != nil {
		t.Fatalf("post-check: %v", err)
	}
	if check.Status != types.DeployPartial {
		t.Fatalf("status=%q", check.Status)
	}
	if check.HealthyCount != 1 || check.TotalCount != 2 || check.HealthPercent != 50 {
		t.Fatalf("unexpected counts: %+v", check)
	}
}

func TestPostCheckSuccess(t *testing.T) {
	client := fake.NewSimpleClientset(deployment("api", 1, 1))
	c := NewChecker(client, "prod")

	check, err := c.PostCheck(context.Background(), "")
	if err != nil {
		t.Fatalf("post-check: %v", err)
	}
	if check.Status != types.DeploySuccess || check.HealthPercent != 100 {
		t.Fatalf("unexpected check: %+v", check)
	}
}

func TestArchitecture(t *testing.T) {
	client := fake.NewSimpleClientset(
		deployment("api", 2, 2),
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "prod"},
			Spec: corev1.ServiceSpec{
				Type:  corev1.ServiceTypeLoadBalancer,
				Ports: []corev1.ServicePort{{Port: 80}, {Port: 443}},
			},
		},
	)
	c := NewChecker(client, "prod")

	report, err := c.Architecture(context.Background())
	if err != nil {
		t.Fatalf("architecture: %v", err)
	}
	if len(report.Deployments) != 1 || report.Deployments[0].Image != "api:v1" {
		t.Fatalf("unexpected deployments: %+v", report.Deployments)
	}
	if len(report.Services) != 1 || report.Services[0].Type != "LoadBalancer" || len(report.Services[0].Ports) != 2 {
		t.Fatalf("unexpected services: %+v", report.Services)
	}
}
