/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelsdkresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	apimachineryruntime "k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/component-base/tracing"
	tracingV1 "k8s.io/component-base/tracing/api/v1"
	nodeutil "k8s.io/component-helpers/node/util"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	opconfig "github.com/novakov-alexey-zz/kubefi/internal/config"
	"github.com/novakov-alexey-zz/kubefi/internal/dispatch"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
	"github.com/novakov-alexey-zz/kubefi/internal/orchestrator"
	"github.com/novakov-alexey-zz/kubefi/internal/reconcile"
	"github.com/novakov-alexey-zz/kubefi/internal/render"
	"github.com/novakov-alexey-zz/kubefi/internal/version"
	"github.com/novakov-alexey-zz/kubefi/internal/watcher"
)

var (
	log         = ctrl.Log.WithName("cmd")
	versionFlag bool
	scheme      = apimachineryruntime.NewScheme()
)

func init() {
	flag.BoolVar(&versionFlag, "version", false, "Show version and quit")
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(appsv1.AddToScheme(scheme))
}

func printVersion() {
	log.Info(fmt.Sprintf("kubefi Version: %v", version.Version))
	log.Info(fmt.Sprintf("Git SHA: %s", version.GitSHA))
	log.Info(fmt.Sprintf("Go Version: %s", runtime.Version()))
	log.Info(fmt.Sprintf("Go OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH))
}

func main() {
	var metricsAddr string
	var tracingEndpoint string
	var tracingSamplingRateInt int
	var templatesRoot string
	var configFile string
	flag.StringVar(&metricsAddr, "metrics-bind-address", "127.0.0.1:6000", "The address the metric endpoint binds to.")
	flag.StringVar(&tracingEndpoint, "tracing-endpoint", "", "The endpoint of the collector this component will report traces to.")
	flag.IntVar(&tracingSamplingRateInt, "tracing-sampling-rate", 100000, "The number of samples to collect per million spans.")
	flag.StringVar(&templatesRoot, "templates", "/etc/kubefi/templates", "Directory holding the manifest templates.")
	flag.StringVar(&configFile, "config", "/etc/kubefi/kubefi.yaml", "Operator configuration file merged into every render's base context.")
	flag.Parse()
	tracingSamplingRate := int32(tracingSamplingRateInt)

	ctrl.SetLogger(zap.New(zap.UseDevMode(false)))

	printVersion()
	if versionFlag {
		os.Exit(0)
	}

	watchAll, namespace := opconfig.Namespace()
	if watchAll {
		logrus.Info("watching all namespaces")
	} else {
		logrus.Infof("watching namespace %q", namespace)
	}
	logrus.Warn("----- Storage class changes are not propagated to an existing ZooKeeper ensemble. -----")

	base, err := opconfig.BaseContext(configFile)
	if err != nil {
		log.Error(err, "unable to load operator configuration, continuing with an empty base context")
		base = map[string]any{}
	}

	renderer, err := render.NewRenderer(templatesRoot, base)
	if err != nil {
		log.Error(err, "unable to build manifest renderer")
		os.Exit(1)
	}

	if _, err := config.GetConfig(); err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()

	hostname, err := nodeutil.GetHostname("")
	if err != nil {
		log.Error(err, "failed to get hostname")
	}
	resourceOpts := []otelsdkresource.Option{
		otelsdkresource.WithAttributes(
			semconv.ServiceNameKey.String("kubefi-operator"),
			semconv.HostNameKey.String(hostname),
		),
	}
	tracingConfig := tracingV1.TracingConfiguration{}
	if tracingEndpoint != "" {
		tracingConfig.Endpoint = &tracingEndpoint
		tracingConfig.SamplingRatePerMillion = &tracingSamplingRate
	}
	tp, err := tracing.NewProvider(ctx, &tracingConfig, []otlptracegrpc.Option{}, resourceOpts)
	if err != nil {
		log.Error(err, "failed to create tracing provider")
	}
	defer tp.Shutdown(ctx)

	mgrConfig := ctrl.GetConfigOrDie()
	mgrConfig.Wrap(tracing.WrapperFor(tp))

	managerNamespaces := []string{}
	if !watchAll {
		managerNamespaces = []string{namespace}
	}

	mgr, err := ctrl.NewManager(mgrConfig, ctrl.Options{
		Scheme:             scheme,
		Cache:              cache.Options{Namespaces: managerNamespaces},
		MetricsBindAddress: metricsAddr,
	})
	if err != nil {
		log.Error(err, "unable to start manager")
		os.Exit(1)
	}

	w := watcher.New(mgr.GetClient(), ctrl.Log.WithName("watcher"))
	if err := w.SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create watcher controller")
		os.Exit(1)
	}

	tracer := tp.Tracer("kubefi-operator")
	kubeClient := kube.New(mgr.GetClient())
	recon := reconcile.New(kubeClient, renderer, tracer)
	orch := orchestrator.New(recon, kubeClient, tracer)
	d := dispatch.New(w, orch, kubeClient, ctrl.Log.WithName("dispatch"))

	go func() {
		if err := d.Run(ctx); err != nil {
			log.Error(err, "event dispatch loop exited")
			os.Exit(1)
		}
	}()

	log.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		log.Error(err, "problem running manager")
		os.Exit(1)
	}
}
