package catalog

// Default returns the built-in catalog served when a workspace has no
// catalog.yaml.
func Default() *Catalog {
	return &Catalog{Tools: []Tool{
		{ID: "docker", Name: "Docker", Category: "Containers", Description: "Containerization platform for building, shipping, and running applications"},
		{ID: "kubernetes", Name: "Kubernetes", Category: "Containers", Description: "Container orchestration platform for automating deployment and scaling"},
		{ID: "terraform", Name: "Terraform", Category: "Infrastructure", Description: "Infrastructure as Code tool for building and managing cloud infrastructure"},
		{ID: "ansible", Name: "Ansible", Category: "Automation", Description: "Automation tool for configuration management and application deployment"},
		{ID: "git", Name: "Git", Category: "Version Control", Description: "Distributed version control system for tracking code changes"},
		{ID: "jenkins", Name: "Jenkins", Category: "CI/CD", Description: "Open-source automation server for building, testing, and deploying code"},
		{ID: "aws", Name: "AWS CLI", Category: "Cloud", Description: "Command line interface for interacting with AWS services"},
		{ID: "azure", Name: "Azure CLI", Category: "Cloud", Description: "Command line interface for managing Azure resources"},
		{ID: "gcloud", Name: "Google Cloud SDK", Category: "Cloud", Description: "Command line interface for Google Cloud Platform"},
		{ID: "helm", Name: "Helm", Category: "Containers", Description: "Package manager for Kubernetes applications"},
		{ID: "prometheus", Name: "Prometheus", Category: "Monitoring", Description: "Monitoring and alerting toolkit for cloud-native applications"},
		{ID: "grafana", Name: "Grafana", Category: "Monitoring", Description: "Analytics and interactive visualization platform"},
		{ID: "gitlab-runner", Name: "GitLab Runner", Category: "CI/CD", Description: "CI/CD execution agent for GitLab pipelines"},
		{ID: "vault", Name: "HashiCorp Vault", Category: "Security", Description: "Secrets management and data protection platform"},
		{ID: "consul", Name: "HashiCorp Consul", Category: "Infrastructure", Description: "Service discovery and configuration management tool"},
		{ID: "minikube", Name: "Minikube", Category: "Containers", Description: "Tool for running Kubernetes locally"},
		{ID: "istio", Name: "Istio", Category: "Containers", Description: "Service mesh for Kubernetes and microservices"},
		{ID: "openshift-cli", Name: "OpenShift CLI", Category: "Containers", Description: "Command-line interface for Red Hat OpenShift"},
		{ID: "packer", Name: "Packer", Category: "Infrastructure", Description: "Tool for creating identical machine images"},
	}}
}
