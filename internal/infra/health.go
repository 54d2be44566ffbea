package infra

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"aictl/pkg/types"
)

// Checker answers read-only health and topology questions about one
// namespace. It never mutates cluster state.
type Checker struct {
	client    kubernetes.Interface
	namespace string
}

// NewChecker wraps a client for the given namespace.
func NewChecker(client kubernetes.Interface, namespace string) *Checker {
	if namespace == "" {
		namespace = "default"
	}
	return &Checker{client: client, namespace: namespace}
}

// Health reports replica health for one Deployment, or for every Deployment
// in the namespace when service is empty.
func (c *Checker) Health(ctx context.Context, service string) (types.ClusterHealth, error) {
	deployments, err := c.deployments(ctx, service)
	if err != nil {
		return types.ClusterHealth{}, err
	}
	health := types.ClusterHealth{
		Namespace: c.namespace,
		Timestamp: time.Now().UTC(),
	}
	for i := range deployments {
		health.Services = append(health.Services, serviceHealth(&deployments[i]))
	}
	return health, nil
}

// Architecture summarizes the namespace topology: workloads with their
// images and the Services fronting them.
func (c *Checker) Architecture(ctx context.Context) (types.ArchitectureReport, error) {
	deployments, err := c.deployments(ctx, "")
	if err != nil {
		return types.ArchitectureReport{}, err
	}
	report := types.ArchitectureReport{
		Namespace: c.namespace,
		Timestamp: time.Now().UTC(),
	}
	for i := range deployments {
		d := &deployments[i]
		ws := types.WorkloadSummary{
			Name:    d.Name,
			Running: d.Status.ReadyReplicas,
			Desired: desiredReplicas(d),
		}
		if containers := d.Spec.Template.Spec.Containers; len(containers) > 0 {
			ws.Image = containers[0].Image
		}
		report.Deployments = append(report.Deployments, ws)
	}

	svcs, err := c.client.CoreV1().Services(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return types.ArchitectureReport{}, fmt.Errorf("list services in %q: %w", c.namespace, err)
	}
	for _, s := range svcs.Items {
		es := types.ExposedService{Name: s.Name, Type: string(s.Spec.Type)}
		for _, p := range s.Spec.Ports {
			es.Ports = append(es.Ports, p.Port)
		}
		report.Services = append(report.Services, es)
	}
	return report, nil
}

// PreCheck verifies the namespace is healthy enough to receive a deployment.
func (c *Checker) PreCheck(ctx context.Context, service string) (types.DeployCheck, error) {
	health, err := c.Health(ctx, service)
	if err != nil {
		return types.DeployCheck{}, err
	}
	check := types.DeployCheck{
		Action: "pre-check",
		Health: health,
	}
	for _, s := range health.Services {
		if !s.Healthy {
			check.Unhealthy = append(check.Unhealthy, s)
		} else {
			check.HealthyCount++
		}
	}
	check.TotalCount = len(health.Services)
	check.HealthPercent = percent(check.HealthyCount, check.TotalCount)
	if len(check.Unhealthy) == 0 {
		check.Status = types.DeployReady
		check.Recommendation = "Safe to deploy"
	} else {
		check.Status = types.DeployNotReady
		check.Recommendation = "Fix unhealthy services before deployment"
	}
	return check, nil
}

// PostCheck verifies a deployment landed: every service healthy means
// success, anything less is partial.
func (c *Checker) PostCheck(ctx context.Context, service string) (types.DeployCheck, error) {
	health, err := c.Health(ctx, service)
	if err != nil {
		return types.DeployCheck{}, err
	}
	check := types.DeployCheck{
		Action: "post-check",
		Health: health,
	}
	for _, s := range health.Services {
		if s.Healthy {
			check.HealthyCount++
		} else {
			check.Unhealthy = append(check.Unhealthy, s)
		}
	}
	check.TotalCount = len(health.Services)
	check.HealthPercent = percent(check.HealthyCount, check.TotalCount)
	if check.HealthyCount == check.TotalCount {
		check.Status = types.DeploySuccess
		check.Recommendation = "Deployment successful"
	} else {
		check.Status = types.DeployPartial
		check.Recommendation = "Some services may need attention"
	}
	return check, nil
}

func (c *Checker) deployments(ctx context.Context, service string) ([]appsv1.Deployment, error) {
	if service != "" {
		d, err := c.client.AppsV1().Deployments(c.namespace).Get(ctx, service, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return nil, fmt.Errorf("deployment %q not found in namespace %q (check: kubectl -n %s get deployments)", service, c.namespace, c.namespace)
			}
			return nil, fmt.Errorf("get deployment %q: %w", service, err)
		}
		return []appsv1.Deployment{*d}, nil
	}
	list, err := c.client.AppsV1().Deployments(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list deployments in %q: %w", c.namespace, err)
	}
	if len(list.Items) == 0 {
		return nil, fmt.Errorf("no deployments found in namespace %q (check: kubectl get deployments -n %s)", c.namespace, c.namespace)
	}
	return list.Items, nil
}

func serviceHealth(d *appsv1.Deployment) types.ServiceHealth {
	desired := desiredReplicas(d)
	running := d.Status.ReadyReplicas
	healthy := running == desired
	status := "Available"
	if !healthy {
		status = "Degraded"
	}
	return types.ServiceHealth{
		Service: d.Name,
		Status:  status,
		Running: running,
		Desired: desired,
		Healthy: healthy,
	}
}

func desiredReplicas(d *appsv1.Deployment) int32 {
	if d.Spec.Replicas != nil {
		return *d.Spec.Replicas
	}
	return 1
}

func percent(healthy, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(healthy) / float64(total) * 100
}
